package annotated

import (
	"math"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// NoLimit requests every remaining path from Paths (maxlen = infinity).
const NoLimit = math.MaxUint64

// PathEnumerator is a lazy, skip-capable cursor over a Dag's shortest
// paths in a fixed LinkOrder. It holds only an absolute position and
// materializes the path on demand by descending through ordered
// successors, using precomputed per-vertex path counts to skip whole
// subtrees — a combinatorial "nth element" walk, not an exhaustive
// enumeration.
type PathEnumerator struct {
	dag   *Dag
	order LinkOrder
	index uint64
	total uint64
}

// PathEnumerator constructs an enumerator positioned at the skip-th
// path (0-based) in the given order. Equivalent to constructing at the
// first path and calling Advance(skip).
func (d *Dag) PathEnumerator(skip uint64, order LinkOrder) *PathEnumerator {
	total := d.CountPaths()
	if skip > total {
		skip = total
	}
	return &PathEnumerator{dag: d, order: order, index: skip, total: total}
}

// Copy returns an independent snapshot of e: advancing the copy never
// affects e, and vice versa.
func (e *PathEnumerator) Copy() *PathEnumerator {
	cp := *e
	return &cp
}

// HasPath reports whether the enumerator currently names a valid path.
func (e *PathEnumerator) HasPath() bool { return e.index < e.total }

// Path returns the current path as an ordered list of annotated links,
// or nil if the enumerator is exhausted. A start==finish Dag's single
// path is the empty (non-nil, zero-length) slice.
func (e *PathEnumerator) Path() []AnnotatedLink {
	if !e.HasPath() {
		return nil
	}
	return e.dag.seek(e.index, e.order)
}

// Advance moves the enumerator forward by k paths. Advancing to or past
// the end exhausts the enumerator; further Advance calls are then a
// no-op.
func (e *PathEnumerator) Advance(k uint64) {
	remaining := e.total - e.index
	if k > remaining {
		k = remaining
	}
	e.index += k
}

// seek materializes the index-th path (0-based, in the given order) as
// a DFS stack of chosen links, one frame per hop from start to finish.
// At each vertex, the successor whose subtree contains index is found
// by consuming preceding subtrees' path counts (from d.counts) one at a
// time, so an entire subtree of skipped paths is accounted for in O(1)
// rather than walked path by path. The frames themselves live on an
// explicit stack rather than the Go call stack, so a path of length
// tens of thousands never risks stack growth.
func (d *Dag) seek(index uint64, order LinkOrder) []AnnotatedLink {
	stack := arraystack.New()
	v := d.start
	for v != d.finish {
		links := d.orderedSuccessors(v, order)
		for _, link := range links {
			c := d.counts[link.dst.id]
			if index < c {
				stack.Push(link)
				v = link.dst.id
				break
			}
			index -= c
		}
	}
	path := make([]AnnotatedLink, stack.Size())
	for i := len(path) - 1; i >= 0; i-- {
		top, _ := stack.Pop()
		path[i] = top.(AnnotatedLink)
	}
	return path
}

// Paths materializes up to maxlen paths beginning at position skip, in
// the given order.
func (d *Dag) Paths(maxlen, skip uint64, order LinkOrder) [][]AnnotatedLink {
	e := d.PathEnumerator(skip, order)
	out := [][]AnnotatedLink{}
	for uint64(len(out)) < maxlen && e.HasPath() {
		out = append(out, e.Path())
		e.Advance(1)
	}
	return out
}
