package graphfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksverver/wikipath/internal/graphfile"
	"github.com/maksverver/wikipath/internal/graphfile/graphfiletest"
)

// writeFixture renders b and writes it to a temp file, returning its path.
func writeFixture(t *testing.T, b *graphfiletest.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.graph")
	require.NoError(t, os.WriteFile(path, b.Build(), 0o644))
	return path
}

// colorsFixture builds the seven-vertex graph used throughout the test
// suite: 1=Red, 2=Blue, 3=Green, 4=Rose, 5=Violet(flower), 6=Violet(color).
// Edges: 1<->2, 1<->3, 2<->3, 4->1, 4->5, 5->6, 6->3.
func colorsFixture() *graphfiletest.Builder {
	return graphfiletest.NewBuilder(7).
		AddEdge(1, 2).AddEdge(2, 1).
		AddEdge(1, 3).AddEdge(3, 1).
		AddEdge(2, 3).AddEdge(3, 2).
		AddEdge(4, 1).AddEdge(4, 5).
		AddEdge(5, 6).
		AddEdge(6, 3)
}

func TestOpen_HeaderAndCounts(t *testing.T) {
	path := writeFixture(t, colorsFixture())
	store, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, uint32(7), store.VertexCount())
	assert.Equal(t, uint32(10), store.EdgeCount())
}

func TestForwardBackwardEdges(t *testing.T) {
	path := writeFixture(t, colorsFixture())
	store, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, []uint32{2, 3}, store.ForwardEdges(1))
	assert.Equal(t, []uint32{2, 3, 4}, store.BackwardEdges(1))
	assert.Empty(t, store.ForwardEdges(0))
	assert.Empty(t, store.ForwardEdges(999))
}

func TestHasForwardEdge(t *testing.T) {
	path := writeFixture(t, colorsFixture())
	store, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.NoError(t, err)
	defer store.Close()

	assert.True(t, store.HasForwardEdge(4, 1))
	assert.False(t, store.HasForwardEdge(1, 4))
}

func TestIsValidVertex(t *testing.T) {
	path := writeFixture(t, colorsFixture())
	store, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.NoError(t, err)
	defer store.Close()

	assert.False(t, store.IsValidVertex(0))
	assert.True(t, store.IsValidVertex(1))
	assert.True(t, store.IsValidVertex(6))
	assert.False(t, store.IsValidVertex(7))
}

func TestOpen_LockIntoMemory(t *testing.T) {
	path := writeFixture(t, colorsFixture())
	store, err := graphfile.Open(path, graphfile.OpenOptions{LockIntoMemory: true})
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, uint32(7), store.VertexCount())
}

func TestOpen_RejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.graph")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))
	_, err := graphfile.Open(path, graphfile.OpenOptions{})
	require.Error(t, err)
}

func TestOpen_RejectsTruncatedFile(t *testing.T) {
	path := writeFixture(t, colorsFixture())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-4], 0o644))
	_, err = graphfile.Open(path, graphfile.OpenOptions{})
	require.Error(t, err)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := graphfile.Open(filepath.Join(t.TempDir(), "missing.graph"), graphfile.OpenOptions{})
	require.Error(t, err)
}
