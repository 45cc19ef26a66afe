package search_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksverver/wikipath/internal/graphfile"
	"github.com/maksverver/wikipath/internal/graphfile/graphfiletest"
	"github.com/maksverver/wikipath/internal/search"
)

func openChain(t *testing.T) *graphfile.Store {
	t.Helper()
	b := graphfiletest.NewBuilder(5).AddEdge(1, 2).AddEdge(2, 3)
	path := filepath.Join(t.TempDir(), "chain.graph")
	require.NoError(t, os.WriteFile(path, b.Build(), 0o644))
	store, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestShortestPath_Chain(t *testing.T) {
	store := openChain(t)
	path, stats := search.ShortestPath(store, 1, 3)
	assert.Equal(t, []uint32{1, 2, 3}, path)
	assert.Equal(t, int64(3), stats.VerticesReached)
	assert.Equal(t, int64(2), stats.VerticesExpanded)
	assert.Equal(t, int64(2), stats.EdgesExpanded)
	assert.GreaterOrEqual(t, stats.TimeTakenMs, int64(0))
}

func TestShortestPath_Unreachable(t *testing.T) {
	store := openChain(t)
	path, stats := search.ShortestPath(store, 3, 1)
	assert.Nil(t, path)
	assert.Equal(t, int64(2), stats.VerticesReached)
	assert.Equal(t, int64(1), stats.VerticesExpanded)
	assert.Equal(t, int64(0), stats.EdgesExpanded)
}

func TestShortestPath_SameVertex(t *testing.T) {
	store := openChain(t)
	path, stats := search.ShortestPath(store, 2, 2)
	assert.Equal(t, []uint32{2}, path)
	assert.Equal(t, int64(1), stats.VerticesReached)
	assert.Equal(t, int64(0), stats.VerticesExpanded)
}

func TestShortestPath_InvalidVertices(t *testing.T) {
	store := openChain(t)
	path, stats := search.ShortestPath(store, 0, 3)
	assert.Nil(t, path)
	assert.Equal(t, search.Stats{TimeTakenMs: stats.TimeTakenMs}, stats)

	path, _ = search.ShortestPath(store, 1, 999)
	assert.Nil(t, path)
}

// Both 2 and 3 lie on shortest paths from 1 to 4; adjacency lists are
// scanned in ascending id order, so the search must deterministically
// meet at 2.
func TestShortestPath_MeetingTieBreak(t *testing.T) {
	b := graphfiletest.NewBuilder(6).
		AddEdge(1, 2).AddEdge(1, 3).
		AddEdge(2, 4).AddEdge(3, 4)
	path := filepath.Join(t.TempDir(), "meetings.graph")
	require.NoError(t, os.WriteFile(path, b.Build(), 0o644))
	store, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	got, _ := search.ShortestPath(store, 1, 4)
	assert.Equal(t, []uint32{1, 2, 4}, got)
}

func TestShortestPath_PropertyInvariants(t *testing.T) {
	store := openChain(t)
	path, stats := search.ShortestPath(store, 1, 3)
	require.NotEmpty(t, path)
	assert.Equal(t, uint32(1), path[0])
	assert.Equal(t, uint32(3), path[len(path)-1])
	for i := 0; i+1 < len(path); i++ {
		assert.True(t, store.HasForwardEdge(path[i], path[i+1]))
	}
	assert.GreaterOrEqual(t, stats.VerticesReached, stats.VerticesExpanded)
}
