package dag_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksverver/wikipath/internal/dag"
	"github.com/maksverver/wikipath/internal/graphfile"
	"github.com/maksverver/wikipath/internal/graphfile/graphfiletest"
)

// openDiamond builds 1 -> {2,3}, 2 -> 4, 3 -> 4, 4 -> 5. Two shortest paths
// of length 3 from 1 to 5.
func openDiamond(t *testing.T) *graphfile.Store {
	t.Helper()
	b := graphfiletest.NewBuilder(6).
		AddEdge(1, 2).AddEdge(1, 3).
		AddEdge(2, 4).AddEdge(3, 4).
		AddEdge(4, 5)
	path := filepath.Join(t.TempDir(), "diamond.graph")
	require.NoError(t, os.WriteFile(path, b.Build(), 0o644))
	store, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestShortestPathDAG(t *testing.T) {
	store := openDiamond(t)
	edges, stats := dag.ShortestPathDAG(store, 1, 5)
	want := []dag.Edge{
		{U: 1, V: 2}, {U: 1, V: 3},
		{U: 2, V: 4}, {U: 3, V: 4},
		{U: 4, V: 5},
	}
	if diff := deep.Equal(want, edges); diff != nil {
		t.Errorf("edge set mismatch: %v", diff)
	}
	assert.Equal(t, int64(5), stats.VerticesReached)
	assert.Equal(t, int64(3), stats.VerticesExpanded)
	assert.Equal(t, int64(5), stats.EdgesExpanded)
	assert.GreaterOrEqual(t, stats.TimeTakenMs, int64(0))
}

// openLattice builds a 15-page graph whose shortest paths from 2 to 15
// form a three-way-branching lattice (seven distinct paths of length
// five), plus assorted off-path edges: dead ends toward 1, back-edges
// through 3, and a 14 <-> 15 cycle that leaves 15 with no route back
// to 2.
func openLattice(t *testing.T) *graphfile.Store {
	t.Helper()
	b := graphfiletest.NewBuilder(16).
		AddEdge(2, 4).AddEdge(2, 5).
		AddEdge(4, 6).
		AddEdge(5, 7).AddEdge(5, 8).
		AddEdge(6, 9).
		AddEdge(7, 10).AddEdge(8, 10).
		AddEdge(9, 11).AddEdge(9, 12).AddEdge(9, 13).
		AddEdge(10, 12).AddEdge(10, 13).
		AddEdge(11, 15).AddEdge(12, 15).AddEdge(13, 15).
		// Off-path edges.
		AddEdge(1, 3).AddEdge(2, 1).AddEdge(3, 1).AddEdge(3, 2).
		AddEdge(4, 1).AddEdge(5, 1).AddEdge(6, 2).AddEdge(9, 2).
		AddEdge(10, 1).AddEdge(14, 15).AddEdge(15, 14)
	path := filepath.Join(t.TempDir(), "lattice.graph")
	require.NoError(t, os.WriteFile(path, b.Build(), 0o644))
	store, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestShortestPathDAG_Lattice(t *testing.T) {
	store := openLattice(t)
	edges, stats := dag.ShortestPathDAG(store, 2, 15)
	want := []dag.Edge{
		{U: 2, V: 4}, {U: 2, V: 5}, {U: 4, V: 6}, {U: 5, V: 7}, {U: 5, V: 8},
		{U: 6, V: 9}, {U: 7, V: 10}, {U: 8, V: 10},
		{U: 9, V: 11}, {U: 9, V: 12}, {U: 9, V: 13},
		{U: 10, V: 12}, {U: 10, V: 13},
		{U: 11, V: 15}, {U: 12, V: 15}, {U: 13, V: 15},
	}
	if diff := deep.Equal(want, edges); diff != nil {
		t.Errorf("edge set mismatch: %v", diff)
	}
	assert.Equal(t, int64(15), stats.VerticesReached)
	assert.Equal(t, int64(11), stats.VerticesExpanded)
	assert.Equal(t, int64(26), stats.EdgesExpanded)
}

func TestShortestPathDAG_Lattice_Unreachable(t *testing.T) {
	store := openLattice(t)
	edges, stats := dag.ShortestPathDAG(store, 15, 2)
	assert.Nil(t, edges)
	assert.Equal(t, int64(3), stats.VerticesReached)
	assert.Equal(t, int64(2), stats.VerticesExpanded)
	assert.Equal(t, int64(2), stats.EdgesExpanded)
}

func TestShortestPathDAG_SameVertex(t *testing.T) {
	store := openDiamond(t)
	edges, _ := dag.ShortestPathDAG(store, 1, 1)
	assert.NotNil(t, edges)
	assert.Empty(t, edges)
}

func TestShortestPathDAG_Unreachable(t *testing.T) {
	store := openDiamond(t)
	edges, stats := dag.ShortestPathDAG(store, 5, 1)
	assert.Nil(t, edges)
	assert.Equal(t, int64(2), stats.VerticesReached)
	assert.Equal(t, int64(1), stats.VerticesExpanded)
	assert.Equal(t, int64(0), stats.EdgesExpanded)
}

func TestShortestPathDAG_ClosedEdgeSet(t *testing.T) {
	store := openDiamond(t)
	edges, _ := dag.ShortestPathDAG(store, 1, 5)
	for _, e := range edges {
		if e.V == 5 {
			continue
		}
		assert.NotEmpty(t, dag.Successors(edges, e.V), "vertex %d has no outgoing DAG edge and isn't the finish", e.V)
	}
}

func TestSuccessors(t *testing.T) {
	store := openDiamond(t)
	edges, _ := dag.ShortestPathDAG(store, 1, 5)
	assert.Equal(t, []uint32{2, 3}, dag.Successors(edges, 1))
	assert.Equal(t, []uint32{4}, dag.Successors(edges, 2))
	assert.Empty(t, dag.Successors(edges, 5))
}
