// Package annotated implements component E: the annotated shortest-path
// DAG (pages and links carrying titles, displayed text, and formatted
// reference strings) plus the lazy, skip-capable path enumerator.
package annotated

import (
	"fmt"
	"math"
	"sort"

	"github.com/maksverver/wikipath/internal/dag"
	"github.com/maksverver/wikipath/internal/metadata"
)

// LinkOrder selects the total order over a vertex's outgoing DAG edges
// used when enumerating its links or materializing paths.
type LinkOrder int

const (
	// OrderID orders by ascending destination page id (the default;
	// storage order).
	OrderID LinkOrder = iota
	// OrderTitle orders by ascending destination title, case-sensitive,
	// ties broken by id.
	OrderTitle
	// OrderText orders by ascending displayed link text, ties broken by
	// id.
	OrderText
)

const untitled = "untitled"
const unknownLinkText = "unknown"

// Dag is an annotated view over a dag.ShortestPathDAG result: every page
// and link involved carries its resolved title and displayed text.
type Dag struct {
	meta   *metadata.Store
	edges  []dag.Edge
	start  uint32
	finish uint32

	succ       map[uint32][]uint32 // u -> ordered (ascending) destinations
	counts     map[uint32]uint64
	saturated  map[uint32]bool
}

// New builds an annotated DAG from the raw edge set produced by
// dag.ShortestPathDAG. Callers must check dag.ShortestPathDAG's
// nil/non-nil result first: a nil edge set means unreachable, and
// wrapping it here would misrepresent it as the zero-length-path case.
func New(meta *metadata.Store, edges []dag.Edge, start, finish uint32) *Dag {
	succ := make(map[uint32][]uint32)
	for _, e := range edges {
		succ[e.U] = append(succ[e.U], e.V)
	}
	for u := range succ {
		sort.Slice(succ[u], func(i, j int) bool { return succ[u][i] < succ[u][j] })
	}
	d := &Dag{meta: meta, edges: edges, start: start, finish: finish, succ: succ}
	d.counts, d.saturated = countPaths(succ, start, finish)
	return d
}

// Start returns the annotated start page.
func (d *Dag) Start() AnnotatedPage { return d.page(d.start) }

// Finish returns the annotated finish page.
func (d *Dag) Finish() AnnotatedPage { return d.page(d.finish) }

// CountPaths returns the total number of distinct shortest paths,
// saturating at math.MaxUint64.
func (d *Dag) CountPaths() uint64 { return d.counts[d.start] }

// CountPathsSaturated reports whether CountPaths hit the saturation
// ceiling (i.e. the true count may be larger than reported).
func (d *Dag) CountPathsSaturated() bool { return d.saturated[d.start] }

// Len is an alias for CountPaths.
func (d *Dag) Len() uint64 { return d.CountPaths() }

func (d *Dag) page(id uint32) AnnotatedPage {
	title := untitled
	if p, ok := d.meta.GetPageByID(id); ok {
		title = p.Title
	}
	return AnnotatedPage{id: id, title: title, dag: d}
}

// linkText resolves the displayed text for a DAG edge. The edge is
// known to exist in the graph, so an absent link-text record means the
// text equals the destination title; "unknown" only appears when the
// destination title itself is unresolved.
func (d *Dag) linkText(src, dst uint32) string {
	destTitle, titled := "", false
	if p, ok := d.meta.GetPageByID(dst); ok {
		destTitle, titled = p.Title, true
	}
	link, found := d.meta.GetLink(src, dst)
	switch {
	case found:
		if !titled {
			destTitle = untitled
		}
		return metadata.LinkText(link, found, destTitle)
	case titled:
		return destTitle
	default:
		return unknownLinkText
	}
}

// orderedSuccessors returns u's outgoing DAG links ordered per order.
func (d *Dag) orderedSuccessors(u uint32, order LinkOrder) []AnnotatedLink {
	dsts := d.succ[u]
	links := make([]AnnotatedLink, len(dsts))
	for i, v := range dsts {
		links[i] = AnnotatedLink{src: d.page(u), dst: d.page(v), text: d.linkText(u, v)}
	}
	switch order {
	case OrderTitle:
		sort.SliceStable(links, func(i, j int) bool {
			if links[i].dst.title != links[j].dst.title {
				return links[i].dst.title < links[j].dst.title
			}
			return links[i].dst.id < links[j].dst.id
		})
	case OrderText:
		sort.SliceStable(links, func(i, j int) bool {
			if links[i].text != links[j].text {
				return links[i].text < links[j].text
			}
			return links[i].dst.id < links[j].dst.id
		})
	default:
		// Already ascending by id (storage order).
	}
	return links
}

// AnnotatedPage is a page wrapper carrying a resolved title and a
// formatted reference string, plus access to its outgoing DAG links.
type AnnotatedPage struct {
	id    uint32
	title string
	dag   *Dag
}

// ID returns the page id.
func (p AnnotatedPage) ID() uint32 { return p.id }

// Title returns the resolved title, or "untitled" if unresolved.
func (p AnnotatedPage) Title() string { return p.title }

// Ref formats the page reference string: `#{id} ({title})`.
func (p AnnotatedPage) Ref() string { return fmt.Sprintf("#%d (%s)", p.id, p.title) }

// String implements fmt.Stringer as Ref.
func (p AnnotatedPage) String() string { return p.Ref() }

// GoString implements fmt.GoStringer with a debug representation.
func (p AnnotatedPage) GoString() string {
	return fmt.Sprintf("wikipath.AnnotatedPage(id=%d, title=%q)", p.id, p.title)
}

// Links returns this page's outgoing shortest-path DAG edges, ordered
// per order (OrderID by default).
func (p AnnotatedPage) Links(order ...LinkOrder) []AnnotatedLink {
	o := OrderID
	if len(order) > 0 {
		o = order[0]
	}
	return p.dag.orderedSuccessors(p.id, o)
}

// AnnotatedLink is a single DAG edge carrying its displayed text and
// formatted forward/backward reference strings.
type AnnotatedLink struct {
	src  AnnotatedPage
	dst  AnnotatedPage
	text string
}

// Src returns the link's source page.
func (l AnnotatedLink) Src() AnnotatedPage { return l.src }

// Dst returns the link's destination page.
func (l AnnotatedLink) Dst() AnnotatedPage { return l.dst }

// Text returns the displayed link text ("unknown" if unresolved).
func (l AnnotatedLink) Text() string { return l.text }

// ForwardRef formats the link as seen walking forward from src to dst.
func (l AnnotatedLink) ForwardRef() string {
	if l.text == l.dst.title {
		return l.dst.Ref()
	}
	return fmt.Sprintf("#%d (%s; displayed as: %s)", l.dst.id, l.dst.title, l.text)
}

// BackwardRef formats the link as seen walking backward from dst to src.
func (l AnnotatedLink) BackwardRef() string {
	if l.text == l.dst.title {
		return l.src.Ref()
	}
	return fmt.Sprintf("#%d (%s; displayed as: %s)", l.src.id, l.src.title, l.text)
}

// String implements fmt.Stringer as ForwardRef.
func (l AnnotatedLink) String() string { return l.ForwardRef() }

// GoString implements fmt.GoStringer with a debug representation.
func (l AnnotatedLink) GoString() string {
	return fmt.Sprintf("wikipath.AnnotatedLink(src=%#v, dst=%#v, text=%q)", l.src, l.dst, l.text)
}

// countPaths computes, for every vertex reachable toward finish, the
// number of distinct shortest paths from that vertex to finish, via an
// iterative (stack-based, not recursive) post-order walk of the DAG.
// The DAG's edges are depth-monotonic so no cycle guard is needed.
// Saturates at math.MaxUint64.
func countPaths(succ map[uint32][]uint32, start, finish uint32) (counts map[uint32]uint64, saturated map[uint32]bool) {
	counts = map[uint32]uint64{finish: 1}
	saturated = map[uint32]bool{}

	type frame struct {
		v   uint32
		idx int
	}
	stack := []frame{{v: start}}
	for len(stack) > 0 {
		i := len(stack) - 1
		v := stack[i].v
		if _, done := counts[v]; done {
			stack = stack[:i]
			continue
		}
		succs := succ[v]
		if stack[i].idx < len(succs) {
			w := succs[stack[i].idx]
			stack[i].idx++
			if _, ok := counts[w]; !ok {
				stack = append(stack, frame{v: w})
			}
			continue
		}
		var sum uint64
		sat := false
		for _, w := range succs {
			newSum, overflowed := addSaturating(sum, counts[w])
			sum = newSum
			sat = sat || saturated[w] || overflowed
		}
		counts[v] = sum
		saturated[v] = sat
		stack = stack[:i]
	}
	return counts, saturated
}

func addSaturating(a, b uint64) (sum uint64, overflowed bool) {
	sum = a + b
	if sum < a {
		return math.MaxUint64, true
	}
	return sum, false
}
