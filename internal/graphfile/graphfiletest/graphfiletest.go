// Package graphfiletest builds graph-file byte images in memory for use
// as test fixtures, without going through an offline builder tool.
package graphfiletest

import (
	"encoding/binary"
	"sort"
)

// Builder accumulates directed edges and renders them into a graphfile
// byte image via Build.
type Builder struct {
	vertexCount uint32
	edges       map[uint32][]uint32
}

// NewBuilder creates a builder for a graph with the given vertex count
// (including the reserved sentinel id 0).
func NewBuilder(vertexCount uint32) *Builder {
	return &Builder{vertexCount: vertexCount, edges: make(map[uint32][]uint32)}
}

// AddEdge records a directed edge u -> v. Duplicate edges are ignored.
func (b *Builder) AddEdge(u, v uint32) *Builder {
	for _, existing := range b.edges[u] {
		if existing == v {
			return b
		}
	}
	b.edges[u] = append(b.edges[u], v)
	return b
}

// Build renders the accumulated edges into a little-endian graphfile
// byte image matching the format documented in package graphfile.
func (b *Builder) Build() []byte {
	fwd := make(map[uint32][]uint32, len(b.edges))
	bwd := make(map[uint32][]uint32, len(b.edges))
	var edgeCount uint32
	for u, vs := range b.edges {
		for _, v := range vs {
			fwd[u] = append(fwd[u], v)
			bwd[v] = append(bwd[v], u)
			edgeCount++
		}
	}
	for _, m := range []map[uint32][]uint32{fwd, bwd} {
		for k := range m {
			sort.Slice(m[k], func(i, j int) bool { return m[k][i] < m[k][j] })
		}
	}

	fwdOffsets, fwdDest := flatten(fwd, b.vertexCount, edgeCount)
	bwdOffsets, bwdDest := flatten(bwd, b.vertexCount, edgeCount)

	var buf []byte
	buf = append(buf, 'w', 'i', 'k', 'i', 'p', 'a', 't', 'h')
	buf = appendUint32(buf, 1) // version
	buf = appendUint32(buf, 0) // reserved
	buf = appendUint64(buf, uint64(b.vertexCount))
	buf = appendUint64(buf, uint64(edgeCount))
	for _, o := range fwdOffsets {
		buf = appendUint64(buf, o)
	}
	for _, d := range fwdDest {
		buf = appendUint32(buf, d)
	}
	for _, o := range bwdOffsets {
		buf = appendUint64(buf, o)
	}
	for _, d := range bwdDest {
		buf = appendUint32(buf, d)
	}
	return buf
}

func flatten(adj map[uint32][]uint32, vertexCount, edgeCount uint32) ([]uint64, []uint32) {
	offsets := make([]uint64, vertexCount+1)
	dest := make([]uint32, 0, edgeCount)
	for v := uint32(0); v < vertexCount; v++ {
		offsets[v] = uint64(len(dest))
		dest = append(dest, adj[v]...)
	}
	offsets[vertexCount] = uint64(len(dest))
	return offsets, dest
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
