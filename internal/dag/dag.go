// Package dag implements component D: the shortest-path DAG engine. It
// runs the same bidirectional layered BFS as the single-path search,
// but on meeting it finishes the whole layer to collect every meeting
// vertex at the minimum combined depth, then grows the edge set of all
// shortest paths outward from those meetings.
package dag

import (
	"sort"
	"time"

	llq "github.com/emirpasic/gods/queues/linkedlistqueue"

	"github.com/maksverver/wikipath/internal/graphfile"
	"github.com/maksverver/wikipath/internal/search"
)

// Edge is a directed edge known to lie on at least one shortest path.
type Edge struct {
	U, V uint32
}

// side holds one direction's traversal state: the depth of every vertex
// discovered so far and the frontier awaiting expansion.
type side struct {
	neighbors func(uint32) []uint32
	depth     map[uint32]int64
	frontier  []uint32
}

// expandLayer expands one full BFS layer, recording depths for newly
// discovered vertices and reporting those already known to the opposite
// side as meeting vertices. The layer always runs to completion so that
// every meeting at this depth is collected.
func (sd *side) expandLayer(other *side, verticesExpanded, edgesExpanded *int64) (meetings []uint32) {
	queue := llq.New()
	for _, v := range sd.frontier {
		queue.Enqueue(v)
	}
	var next []uint32
	for !queue.Empty() {
		raw, _ := queue.Dequeue()
		u := raw.(uint32)
		*verticesExpanded++
		ns := sd.neighbors(u)
		*edgesExpanded += int64(len(ns))
		for _, w := range ns {
			if _, seen := sd.depth[w]; seen {
				continue
			}
			sd.depth[w] = sd.depth[u] + 1
			next = append(next, w)
			if _, met := other.depth[w]; met {
				meetings = append(meetings, w)
			}
		}
	}
	sd.frontier = next
	return meetings
}

// ShortestPathDAG returns every edge (u,v) lying on at least one
// shortest path from s to t, sorted ascending by (u,v).
//
// Returns nil when t is unreachable from s, and a non-nil empty slice
// when s == t (a zero-length path, no edges).
func ShortestPathDAG(store *graphfile.Store, s, t uint32) ([]Edge, search.Stats) {
	start := time.Now()
	if !store.IsValidVertex(s) || !store.IsValidVertex(t) {
		return nil, search.Stats{TimeTakenMs: nonNegativeMs(start)}
	}
	if s == t {
		return []Edge{}, search.Stats{VerticesReached: 1, TimeTakenMs: nonNegativeMs(start)}
	}

	fwd := &side{neighbors: store.ForwardEdges, depth: map[uint32]int64{s: 0}, frontier: []uint32{s}}
	bwd := &side{neighbors: store.BackwardEdges, depth: map[uint32]int64{t: 0}, frontier: []uint32{t}}

	var verticesExpanded, edgesExpanded int64
	var meetings []uint32
	for len(fwd.frontier) > 0 && len(bwd.frontier) > 0 {
		if len(fwd.frontier) <= len(bwd.frontier) {
			meetings = fwd.expandLayer(bwd, &verticesExpanded, &edgesExpanded)
		} else {
			meetings = bwd.expandLayer(fwd, &verticesExpanded, &edgesExpanded)
		}
		if len(meetings) > 0 {
			break
		}
	}

	stats := search.Stats{
		VerticesReached:  unionSize(fwd.depth, bwd.depth),
		VerticesExpanded: verticesExpanded,
		EdgesExpanded:    edgesExpanded,
		TimeTakenMs:      nonNegativeMs(start),
	}
	if len(meetings) == 0 {
		return nil, stats
	}

	pathLen := fwd.depth[meetings[0]] + bwd.depth[meetings[0]]
	for _, m := range meetings[1:] {
		if d := fwd.depth[m] + bwd.depth[m]; d < pathLen {
			pathLen = d
		}
	}
	var onPath []uint32
	for _, m := range meetings {
		if fwd.depth[m]+bwd.depth[m] == pathLen {
			onPath = append(onPath, m)
		}
	}

	edges := collectEdges(store, fwd.depth, bwd.depth, onPath)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})
	return edges, stats
}

// collectEdges grows the shortest-path edge set outward from the
// meeting vertices: backward toward s along forward depths (every
// in-edge (u,v) with df[u]+1 == df[v] is on a shortest path, because v
// is), then forward toward t along backward depths. The meetings all
// share the same forward depth, so the two sweeps cannot emit the same
// edge twice.
func collectEdges(store *graphfile.Store, df, db map[uint32]int64, meetings []uint32) []Edge {
	var edges []Edge

	seen := make(map[uint32]struct{}, len(meetings))
	queue := append([]uint32(nil), meetings...)
	for _, m := range meetings {
		seen[m] = struct{}{}
	}
	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		dv := df[v]
		for _, u := range store.BackwardEdges(v) {
			if du, ok := df[u]; ok && du+1 == dv {
				edges = append(edges, Edge{U: u, V: v})
				if _, ok := seen[u]; !ok {
					seen[u] = struct{}{}
					queue = append(queue, u)
				}
			}
		}
	}

	seen = make(map[uint32]struct{}, len(meetings))
	queue = append(queue[:0], meetings...)
	for _, m := range meetings {
		seen[m] = struct{}{}
	}
	for len(queue) > 0 {
		u := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		du := db[u]
		for _, w := range store.ForwardEdges(u) {
			if dw, ok := db[w]; ok && dw+1 == du {
				edges = append(edges, Edge{U: u, V: w})
				if _, ok := seen[w]; !ok {
					seen[w] = struct{}{}
					queue = append(queue, w)
				}
			}
		}
	}

	return edges
}

func unionSize(a, b map[uint32]int64) int64 {
	seen := make(map[uint32]struct{}, len(a)+len(b))
	for v := range a {
		seen[v] = struct{}{}
	}
	for v := range b {
		seen[v] = struct{}{}
	}
	return int64(len(seen))
}

func nonNegativeMs(start time.Time) int64 {
	ms := time.Since(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// Successors returns the destinations of edges in es that originate at u,
// in the order they appear in es (ascending when es is sorted by (u,v),
// as ShortestPathDAG returns it).
func Successors(es []Edge, u uint32) []uint32 {
	var out []uint32
	for _, e := range es {
		if e.U == u {
			out = append(out, e.V)
		}
	}
	return out
}
