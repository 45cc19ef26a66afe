// Package search implements component C: bidirectional breadth-first
// search for a single shortest path between two vertices of a
// graphfile.Store.
package search

import (
	"time"

	llq "github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/maksverver/wikipath/internal/graphfile"
)

// Stats holds the instrumentation counters collected during a search.
// It is shared by the single-path search (this package) and the
// shortest-path DAG engine, which reports the same four fields.
type Stats struct {
	VerticesReached  int64
	VerticesExpanded int64
	EdgesExpanded    int64
	TimeTakenMs      int64
}

// direction distinguishes the forward search (rooted at s, walking
// forward adjacency) from the backward search (rooted at t, walking
// backward adjacency).
type direction int

const (
	forward direction = iota
	backward
)

// visitor accumulates reachability state for one side of a bidirectional
// search: which vertices have been discovered, and via which neighbor
// (so the path can be reconstructed).
type visitor struct {
	store *graphfile.Store
	dir   direction
	// pred[v] is v's neighbor one step closer to the root of this side's
	// search (predecessor for the forward side, successor for the
	// backward side).
	pred map[uint32]uint32
}

func newVisitor(store *graphfile.Store, dir direction, root uint32) *visitor {
	return &visitor{store: store, dir: dir, pred: map[uint32]uint32{root: 0}}
}

func (v *visitor) neighbors(u uint32) []uint32 {
	if v.dir == forward {
		return v.store.ForwardEdges(u)
	}
	return v.store.BackwardEdges(u)
}

func (v *visitor) visited(u uint32) bool {
	_, ok := v.pred[u]
	return ok
}

// ShortestPath finds a single shortest path from s to t using
// bidirectional BFS: the side with the smaller current frontier is
// expanded one layer at a time (ties favor the forward side), until an
// expansion inspects a vertex already visited by the opposite side.
// That first meeting ends the search immediately — adjacency lists are
// scanned in ascending id order, so the result is deterministic — and
// the counters reflect only the vertices and edges inspected up to and
// including it.
//
// Returns an empty path and zero-ish stats if s or t is 0 or
// out-of-range (the store never raises; only query results reflect
// absence). Returns [s] immediately when s == t.
func ShortestPath(store *graphfile.Store, s, t uint32) ([]uint32, Stats) {
	start := time.Now()
	if !store.IsValidVertex(s) || !store.IsValidVertex(t) {
		return nil, Stats{TimeTakenMs: elapsedMs(start)}
	}
	if s == t {
		return []uint32{s}, Stats{VerticesReached: 1, TimeTakenMs: elapsedMs(start)}
	}

	fwd := newVisitor(store, forward, s)
	bwd := newVisitor(store, backward, t)
	fwdFrontier := []uint32{s}
	bwdFrontier := []uint32{t}

	var verticesExpanded, edgesExpanded int64

	for len(fwdFrontier) > 0 && len(bwdFrontier) > 0 {
		var meet uint32
		var met bool
		if len(fwdFrontier) <= len(bwdFrontier) {
			fwdFrontier, meet, met = expandLayer(fwd, bwd, fwdFrontier, &verticesExpanded, &edgesExpanded)
		} else {
			bwdFrontier, meet, met = expandLayer(bwd, fwd, bwdFrontier, &verticesExpanded, &edgesExpanded)
		}
		if met {
			path := reconstructPath(fwd, bwd, meet)
			return path, Stats{
				VerticesReached:  unionSize(fwd.pred, bwd.pred),
				VerticesExpanded: verticesExpanded,
				EdgesExpanded:    edgesExpanded,
				TimeTakenMs:      elapsedMs(start),
			}
		}
	}

	return nil, Stats{
		VerticesReached:  unionSize(fwd.pred, bwd.pred),
		VerticesExpanded: verticesExpanded,
		EdgesExpanded:    edgesExpanded,
		TimeTakenMs:      elapsedMs(start),
	}
}

// unionSize counts the distinct vertex ids present as keys in either map.
func unionSize(a, b map[uint32]uint32) int64 {
	seen := make(map[uint32]struct{}, len(a)+len(b))
	for v := range a {
		seen[v] = struct{}{}
	}
	for v := range b {
		seen[v] = struct{}{}
	}
	return int64(len(seen))
}

// expandLayer expands one BFS layer on the `side` visitor, discovering
// new vertices into its pred map and queuing the next frontier. The
// scan stops the moment an inspected neighbor turns out to be visited
// by the opposite side: the rest of that vertex's adjacency and the
// rest of the layer are never touched, so the counters cover only what
// was actually inspected.
func expandLayer(side, other *visitor, frontier []uint32, verticesExpanded, edgesExpanded *int64) (nextFrontier []uint32, meet uint32, met bool) {
	queue := llq.New()
	for _, v := range frontier {
		queue.Enqueue(v)
	}
	next := llq.New()
	for !queue.Empty() {
		raw, _ := queue.Dequeue()
		u := raw.(uint32)
		*verticesExpanded++
		for _, w := range side.neighbors(u) {
			*edgesExpanded++
			if !side.visited(w) {
				side.pred[w] = u
				next.Enqueue(w)
			}
			if other.visited(w) {
				return nil, w, true
			}
		}
	}
	for !next.Empty() {
		raw, _ := next.Dequeue()
		nextFrontier = append(nextFrontier, raw.(uint32))
	}
	return nextFrontier, 0, false
}

// reconstructPath chases forward predecessors from meet back to s
// (reversing), then chases backward successors from meet forward to t.
// Vertex id 0 never occurs as a real predecessor (it's the reserved
// sentinel), so it doubles as the "this is the search root" marker.
func reconstructPath(fwd, bwd *visitor, meet uint32) []uint32 {
	var forwardHalf []uint32
	for v := meet; ; {
		forwardHalf = append(forwardHalf, v)
		p := fwd.pred[v]
		if p == 0 {
			break
		}
		v = p
	}
	reverse(forwardHalf)

	var backwardHalf []uint32
	if v := bwd.pred[meet]; v != 0 {
		for {
			backwardHalf = append(backwardHalf, v)
			p := bwd.pred[v]
			if p == 0 {
				break
			}
			v = p
		}
	}

	return append(forwardHalf, backwardHalf...)
}

func reverse(s []uint32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func elapsedMs(start time.Time) int64 {
	ms := time.Since(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
