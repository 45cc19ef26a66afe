// Command wikipath-search is a thin argv-driven smoke test for the
// Reader facade: open a graph/metadata pair named in a config file,
// resolve two page arguments, and print the shortest path between them
// (or, with -dag, the path count and the first search.max_paths_listed
// shortest paths in id order).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	wikipath "github.com/maksverver/wikipath"
	"github.com/maksverver/wikipath/internal/annotated"
	"github.com/maksverver/wikipath/internal/config"
)

func main() {
	configPath := flag.String("config", "config.example.yaml", "path to a wikipath YAML config")
	dag := flag.Bool("dag", false, "list shortest paths (up to max-paths) instead of printing just one")
	maxPaths := flag.Int("max-paths", 0, "override search.max_paths_listed from the config")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: wikipath-search [flags] <from> <to>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	fromArg, toArg := flag.Arg(0), flag.Arg(1)

	cfg, err := config.LoadFromYAML(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *maxPaths > 0 {
		cfg.Search.MaxPathsListed = *maxPaths
	}

	r, err := wikipath.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	fmt.Printf("wikipath-search: %d vertices, %d edges\n", r.VertexCount(), r.EdgeCount())

	if !*dag {
		path, stats, err := r.ShortestPath(fromArg, toArg)
		if err != nil {
			log.Fatalf("Failed to resolve page argument: %v", err)
		}
		printPath(r, path)
		printStats(stats)
		return
	}

	d, stats, err := r.ShortestPathAnnotatedDAG(fromArg, toArg)
	if err != nil {
		log.Fatalf("Failed to resolve page argument: %v", err)
	}
	if d == nil {
		fmt.Println("No path found.")
		printStats(stats)
		return
	}
	fmt.Printf("%s -> %s: %d shortest path(s)", d.Start().Ref(), d.Finish().Ref(), d.CountPaths())
	if d.CountPathsSaturated() {
		fmt.Print(" (saturated, true count may be larger)")
	}
	fmt.Println()

	paths := d.Paths(uint64(cfg.Search.MaxPathsListed), 0, annotated.OrderID)
	for i, p := range paths {
		fmt.Printf("  %d: %s", i+1, d.Start().Ref())
		for _, link := range p {
			fmt.Printf(" -> %s", link.ForwardRef())
		}
		fmt.Println()
	}
	if uint64(len(paths)) < d.CountPaths() {
		fmt.Printf("  ... and %d more\n", d.CountPaths()-uint64(len(paths)))
	}
	printStats(stats)
}

func printPath(r *wikipath.Reader, path []uint32) {
	if len(path) == 0 {
		fmt.Println("No path found.")
		return
	}
	fmt.Print(r.PageRef(path[0]))
	for i := 1; i < len(path); i++ {
		fmt.Printf(" -> %s", r.ForwardLinkRef(path[i-1], path[i]))
	}
	fmt.Println()
}

func printStats(stats wikipath.Stats) {
	fmt.Printf("stats: reached=%d expanded=%d edges=%d time=%dms\n",
		stats.VerticesReached, stats.VerticesExpanded, stats.EdgesExpanded, stats.TimeTakenMs)
}
