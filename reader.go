// Package wikipath is the facade tying the graph store, metadata store,
// and search engines together: it resolves textual page arguments,
// formats the reference strings CLIs print, and is the only layer that
// translates absence into errors instead of sentinel zero values.
package wikipath

import (
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maksverver/wikipath/internal/annotated"
	"github.com/maksverver/wikipath/internal/config"
	"github.com/maksverver/wikipath/internal/dag"
	"github.com/maksverver/wikipath/internal/graphfile"
	"github.com/maksverver/wikipath/internal/metadata"
	"github.com/maksverver/wikipath/internal/search"
	"github.com/maksverver/wikipath/internal/wikierr"
)

// Stats re-exports the shared search/DAG instrumentation type, so callers
// of this package never need to import internal/search directly.
type Stats = search.Stats

// LinkOrder re-exports the annotated DAG's ordering enum.
type LinkOrder = annotated.LinkOrder

const (
	OrderID    = annotated.OrderID
	OrderTitle = annotated.OrderTitle
	OrderText  = annotated.OrderText
)

// Reader is the open handle combining the graph store (component A) and
// the metadata store (component B). It is safe for concurrent read-only
// use: every query owns its own transient state.
type Reader struct {
	graph *graphfile.Store
	meta  *metadata.Store
}

// Open opens the graph and metadata files named in cfg and returns a
// Reader handle. Both stores are memory-mapped; Close releases the
// mappings.
func Open(cfg *config.Config) (*Reader, error) {
	start := time.Now()

	graph, err := graphfile.Open(cfg.Graph.Path, graphfile.OpenOptions{LockIntoMemory: cfg.Graph.LockIntoMemory})
	if err != nil {
		return nil, err
	}
	log.Printf("wikipath: opened graph file %s (%d vertices, %d edges) in %s",
		cfg.Graph.Path, graph.VertexCount(), graph.EdgeCount(), time.Since(start))

	metaStart := time.Now()
	meta, err := metadata.Open(cfg.Metadata.Path, cfg.Metadata.LockIntoMemory)
	if err != nil {
		graph.Close()
		return nil, err
	}
	log.Printf("wikipath: opened metadata file %s (%d pages) in %s",
		cfg.Metadata.Path, meta.PageCount(), time.Since(metaStart))

	return &Reader{graph: graph, meta: meta}, nil
}

// Close releases the underlying memory mappings.
func (r *Reader) Close() error {
	metaErr := r.meta.Close()
	graphErr := r.graph.Close()
	if graphErr != nil {
		return graphErr
	}
	return metaErr
}

// VertexCount returns the number of vertices in the graph, including the
// unused id 0.
func (r *Reader) VertexCount() uint32 { return r.graph.VertexCount() }

// EdgeCount returns the number of directed edges in the graph.
func (r *Reader) EdgeCount() uint32 { return r.graph.EdgeCount() }

// IsValidPageID reports whether id names an actual page.
func (r *Reader) IsValidPageID(id uint32) bool { return r.graph.IsValidVertex(id) }

// RandomPageID returns a uniformly random valid page id in
// [1, VertexCount).
func (r *Reader) RandomPageID() uint32 {
	n := int64(r.graph.VertexCount())
	if n <= 1 {
		return 0
	}
	return uint32(1 + rand.Int63n(n-1))
}

// ForwardEdges returns id's outgoing neighbors, or nil if id is invalid.
func (r *Reader) ForwardEdges(id uint32) []uint32 { return r.graph.ForwardEdges(id) }

// BackwardEdges returns id's incoming neighbors, or nil if id is invalid.
func (r *Reader) BackwardEdges(id uint32) []uint32 { return r.graph.BackwardEdges(id) }

// PageTitle returns id's title, or ("", false) if id is not a known page.
func (r *Reader) PageTitle(id uint32) (string, bool) {
	p, ok := r.meta.GetPageByID(id)
	if !ok {
		return "", false
	}
	return p.Title, true
}

// PageIDByTitle returns the page id for an exact title match, or
// (0, false) on miss.
func (r *Reader) PageIDByTitle(title string) (uint32, bool) {
	p, ok := r.meta.GetPageByTitle(title)
	if !ok {
		return 0, false
	}
	return p.ID, true
}

// LinkText returns the displayed text for the link (src, dst). An edge
// with no link-text record displays the destination title verbatim.
// Without a record, ("", false) is returned when the graph has no such
// edge or the destination page has no title.
func (r *Reader) LinkText(src, dst uint32) (string, bool) {
	link, ok := r.meta.GetLink(src, dst)
	title, titled := r.PageTitle(dst)
	if !ok && !(titled && r.graph.HasForwardEdge(src, dst)) {
		return "", false
	}
	return metadata.LinkText(link, ok, title), true
}

// PageRef formats id as "#{id} ({title})", with title defaulting to
// "untitled" when unresolved.
func (r *Reader) PageRef(id uint32) string {
	title, ok := r.PageTitle(id)
	if !ok {
		title = untitled
	}
	return formatRef(id, title)
}

// ForwardLinkRef formats the link (src, dst) as seen walking forward.
func (r *Reader) ForwardLinkRef(src, dst uint32) string {
	dstTitle, ok := r.PageTitle(dst)
	if !ok {
		dstTitle = untitled
	}
	text, found := r.LinkText(src, dst)
	if !found {
		text = unknownLinkText
	}
	if text == dstTitle {
		return formatRef(dst, dstTitle)
	}
	return formatRefWithText(dst, dstTitle, text)
}

// BackwardLinkRef formats the link (src, dst) as seen walking backward.
func (r *Reader) BackwardLinkRef(src, dst uint32) string {
	dstTitle, ok := r.PageTitle(dst)
	if !ok {
		dstTitle = untitled
	}
	srcTitle, ok := r.PageTitle(src)
	if !ok {
		srcTitle = untitled
	}
	text, found := r.LinkText(src, dst)
	if !found {
		text = unknownLinkText
	}
	if text == dstTitle {
		return formatRef(src, srcTitle)
	}
	return formatRefWithText(src, srcTitle, text)
}

const untitled = "untitled"
const unknownLinkText = "unknown"

func formatRef(id uint32, title string) string {
	return "#" + strconv.FormatUint(uint64(id), 10) + " (" + title + ")"
}

func formatRefWithText(id uint32, title, text string) string {
	return "#" + strconv.FormatUint(uint64(id), 10) + " (" + title + "; displayed as: " + text + ")"
}

// ResolvePageArg parses a page argument per the facade grammar:
//   - "#N": the page with numeric id N,
//   - "?": a uniformly random valid page id,
//   - anything else: looked up by exact title.
//
// Returns wikierr.InvalidArgument if the digits after "#" do not parse
// as an id, and wikierr.PageNotFound if the argument does not resolve
// to a valid page.
func (r *Reader) ResolvePageArg(arg string) (uint32, error) {
	switch {
	case arg == "?":
		return r.RandomPageID(), nil
	case strings.HasPrefix(arg, "#"):
		n, err := strconv.ParseUint(arg[1:], 10, 32)
		if err != nil {
			return 0, wikierr.NewInvalidArgument("invalid page id: %q", arg)
		}
		if !r.IsValidPageID(uint32(n)) {
			return 0, wikierr.NewPageNotFound(uint32(n))
		}
		return uint32(n), nil
	default:
		id, ok := r.PageIDByTitle(arg)
		if !ok {
			return 0, wikierr.NewPageNotFound(arg)
		}
		return id, nil
	}
}

// ShortestPath resolves fromArg/toArg and finds the shortest path between
// them, raising wikierr.PageNotFound if either argument fails to
// resolve.
func (r *Reader) ShortestPath(fromArg, toArg string) ([]uint32, Stats, error) {
	id := uuid.New()
	s, err := r.ResolvePageArg(fromArg)
	if err != nil {
		return nil, Stats{}, err
	}
	t, err := r.ResolvePageArg(toArg)
	if err != nil {
		return nil, Stats{}, err
	}
	path, stats := search.ShortestPath(r.graph, s, t)
	log.Printf("wikipath[%s]: shortest_path(%q, %q) -> %d hops in %dms", id, fromArg, toArg, len(path), stats.TimeTakenMs)
	return path, stats, nil
}

// ShortestPathByID is the raw-id counterpart of ShortestPath: invalid
// ids yield an empty path rather than an error.
func (r *Reader) ShortestPathByID(s, t uint32) ([]uint32, Stats) {
	return search.ShortestPath(r.graph, s, t)
}

// ShortestPathDAG resolves fromArg/toArg and computes the shortest-path
// DAG edge set between them.
func (r *Reader) ShortestPathDAG(fromArg, toArg string) ([]dag.Edge, Stats, error) {
	id := uuid.New()
	s, err := r.ResolvePageArg(fromArg)
	if err != nil {
		return nil, Stats{}, err
	}
	t, err := r.ResolvePageArg(toArg)
	if err != nil {
		return nil, Stats{}, err
	}
	edges, stats := dag.ShortestPathDAG(r.graph, s, t)
	log.Printf("wikipath[%s]: shortest_path_dag(%q, %q) -> %d edges in %dms", id, fromArg, toArg, len(edges), stats.TimeTakenMs)
	return edges, stats, nil
}

// ShortestPathAnnotatedDAG resolves fromArg/toArg, computes the
// shortest-path DAG, and wraps it in an annotated.Dag view carrying
// titles and displayed link text. Returns nil (no error) if the DAG is
// unreachable.
func (r *Reader) ShortestPathAnnotatedDAG(fromArg, toArg string) (*annotated.Dag, Stats, error) {
	id := uuid.New()
	s, err := r.ResolvePageArg(fromArg)
	if err != nil {
		return nil, Stats{}, err
	}
	t, err := r.ResolvePageArg(toArg)
	if err != nil {
		return nil, Stats{}, err
	}
	edges, stats := dag.ShortestPathDAG(r.graph, s, t)
	log.Printf("wikipath[%s]: shortest_path_annotated_dag(%q, %q) -> %d edges in %dms", id, fromArg, toArg, len(edges), stats.TimeTakenMs)
	if edges == nil {
		return nil, stats, nil
	}
	return annotated.New(r.meta, edges, s, t), stats, nil
}

// Describe returns a diagnostic multi-line summary of pageID's forward
// and backward links, as printed by wikipath-inspect.
func (r *Reader) Describe(pageID uint32) string {
	var b strings.Builder
	b.WriteString(r.PageRef(pageID))
	b.WriteString("\n")

	out := r.ForwardEdges(pageID)
	b.WriteString("Outgoing links (" + strconv.Itoa(len(out)) + "):\n")
	for _, v := range out {
		b.WriteString("  " + r.ForwardLinkRef(pageID, v) + "\n")
	}

	in := r.BackwardEdges(pageID)
	b.WriteString("Incoming links (" + strconv.Itoa(len(in)) + "):\n")
	for _, u := range in {
		b.WriteString("  " + r.BackwardLinkRef(u, pageID) + "\n")
	}

	return b.String()
}
