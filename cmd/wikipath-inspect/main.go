// Command wikipath-inspect is a thin argv-driven smoke test: open a
// graph/metadata pair and dump a single page's outgoing and incoming
// links.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	wikipath "github.com/maksverver/wikipath"
	"github.com/maksverver/wikipath/internal/config"
)

func main() {
	configPath := flag.String("config", "config.example.yaml", "path to a wikipath YAML config")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: wikipath-inspect [flags] <page>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	pageArg := flag.Arg(0)

	cfg, err := config.LoadFromYAML(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	r, err := wikipath.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	id, err := r.ResolvePageArg(pageArg)
	if err != nil {
		log.Fatalf("Failed to resolve page argument %q: %v", pageArg, err)
	}

	fmt.Print(r.Describe(id))
}
