// Package graphfile implements component A: a memory-mapped, read-only
// directed-graph store with forward and backward adjacency.
//
// The on-disk layout (little-endian) is:
//
//	8 bytes  magic
//	4 bytes  format version
//	4 bytes  reserved
//	8 bytes  vertex_count
//	8 bytes  edge_count
//	(vertex_count+1) x 8 bytes  forward offsets
//	edge_count       x 4 bytes  forward destination ids
//	(vertex_count+1) x 8 bytes  backward offsets
//	edge_count       x 4 bytes  backward destination ids
package graphfile

import (
	"encoding/binary"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/maksverver/wikipath/internal/wikierr"
)

// Magic identifies a wikipath graph file.
var Magic = [8]byte{'w', 'i', 'k', 'i', 'p', 'a', 't', 'h'}

// Version is the only format version this package understands.
const Version uint32 = 1

const headerSize = 8 + 4 + 4 + 8 + 8

// OpenOptions configures Open.
type OpenOptions struct {
	// LockIntoMemory advises the OS to keep the mapped pages resident
	// (mlock). Best-effort: failure to lock does not fail Open.
	LockIntoMemory bool
}

// Store is an opened, memory-mapped graph file. The zero value is not
// usable; construct one with Open. Store is safe for concurrent reads
// from multiple goroutines once opened.
type Store struct {
	file        *os.File
	data        []byte
	vertexCount uint32
	edgeCount   uint32
	fwdOffsets  []uint64
	fwdDestIDs  []uint32
	bwdOffsets  []uint64
	bwdDestIDs  []uint32
	locked      bool
}

// Open memory-maps path and validates its header. The returned Store
// holds the mapping for its lifetime; call Close to release it.
func Open(path string, opts OpenOptions) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wikierr.WrapIoError("open graph file", err)
	}
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, wikierr.WrapIoError("stat graph file", err)
	}
	if info.Size() < headerSize {
		return nil, wikierr.NewInvalidFormat("graph file too small to contain a header: %d bytes", info.Size())
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, wikierr.WrapIoError("mmap graph file", err)
	}
	mapped := true
	defer func() {
		if !ok && mapped {
			unix.Munmap(data)
		}
	}()

	s, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	s.file = f

	if opts.LockIntoMemory {
		// Best-effort: a failed mlock does not affect correctness.
		s.locked = unix.Mlock(data) == nil
	}

	ok = true
	return s, nil
}

func parseHeader(data []byte) (*Store, error) {
	if string(data[0:8]) != string(Magic[:]) {
		return nil, wikierr.NewInvalidFormat("bad magic bytes")
	}
	version := binary.LittleEndian.Uint32(data[8:12])
	if version != Version {
		return nil, wikierr.NewUnsupported("unsupported graph file version %d", version)
	}
	vertexCount64 := binary.LittleEndian.Uint64(data[16:24])
	edgeCount64 := binary.LittleEndian.Uint64(data[24:32])
	if vertexCount64 > 1<<32-1 || edgeCount64 > 1<<32-1 {
		return nil, wikierr.NewInvalidFormat("vertex_count/edge_count exceed 32-bit range")
	}
	vertexCount := uint32(vertexCount64)
	edgeCount := uint32(edgeCount64)

	offsetsLen := int(vertexCount) + 1
	fwdOffsetsStart := headerSize
	fwdOffsetsEnd := fwdOffsetsStart + offsetsLen*8
	fwdEdgesEnd := fwdOffsetsEnd + int(edgeCount)*4
	bwdOffsetsEnd := fwdEdgesEnd + offsetsLen*8
	bwdEdgesEnd := bwdOffsetsEnd + int(edgeCount)*4

	if bwdEdgesEnd != len(data) {
		return nil, wikierr.NewInvalidFormat(
			"graph file size mismatch: expected %d bytes, got %d", bwdEdgesEnd, len(data))
	}

	fwdOffsets := bytesToUint64Slice(data[fwdOffsetsStart:fwdOffsetsEnd])
	fwdDestIDs := bytesToUint32Slice(data[fwdOffsetsEnd:fwdEdgesEnd])
	bwdOffsets := bytesToUint64Slice(data[fwdEdgesEnd:bwdOffsetsEnd])
	bwdDestIDs := bytesToUint32Slice(data[bwdOffsetsEnd:bwdEdgesEnd])

	if fwdOffsets[0] != 0 || fwdOffsets[len(fwdOffsets)-1] != uint64(edgeCount) {
		return nil, wikierr.NewInvalidFormat("forward offsets do not span the forward edge region")
	}
	if bwdOffsets[0] != 0 || bwdOffsets[len(bwdOffsets)-1] != uint64(edgeCount) {
		return nil, wikierr.NewInvalidFormat("backward offsets do not span the backward edge region")
	}
	for i := 1; i < len(fwdOffsets); i++ {
		if fwdOffsets[i] < fwdOffsets[i-1] {
			return nil, wikierr.NewInvalidFormat("forward offsets are not monotonic")
		}
	}
	for i := 1; i < len(bwdOffsets); i++ {
		if bwdOffsets[i] < bwdOffsets[i-1] {
			return nil, wikierr.NewInvalidFormat("backward offsets are not monotonic")
		}
	}

	return &Store{
		data:        data,
		vertexCount: vertexCount,
		edgeCount:   edgeCount,
		fwdOffsets:  fwdOffsets,
		fwdDestIDs:  fwdDestIDs,
		bwdOffsets:  bwdOffsets,
		bwdDestIDs:  bwdDestIDs,
	}, nil
}

// bytesToUint64Slice reinterprets a little-endian byte slice as a
// []uint64 view without copying. b's length must be a multiple of 8 and
// b must remain alive (backed by the mmap) for the lifetime of the
// returned slice.
func bytesToUint64Slice(b []byte) []uint64 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&b[0])), len(b)/8)
}

// bytesToUint32Slice is the 32-bit analogue of bytesToUint64Slice.
func bytesToUint32Slice(b []byte) []uint32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// Close releases the memory mapping and the underlying file descriptor.
func (s *Store) Close() error {
	var err error
	if s.locked {
		unix.Munlock(s.data)
		s.locked = false
	}
	if s.data != nil {
		if e := unix.Munmap(s.data); e != nil {
			err = e
		}
		s.data = nil
	}
	if s.file != nil {
		if e := s.file.Close(); e != nil && err == nil {
			err = e
		}
		s.file = nil
	}
	if err != nil {
		return wikierr.WrapIoError("close graph file", err)
	}
	return nil
}

// VertexCount returns the number of vertex slots, including the reserved
// sentinel id 0. Valid page ids are 1..VertexCount()-1.
func (s *Store) VertexCount() uint32 { return s.vertexCount }

// EdgeCount returns the total number of directed edges.
func (s *Store) EdgeCount() uint32 { return s.edgeCount }

// IsValidVertex reports whether v names an addressable, non-sentinel
// vertex.
func (s *Store) IsValidVertex(v uint32) bool {
	return v != 0 && v < s.vertexCount
}

// ForwardEdges returns the sorted, duplicate-free list of destinations
// reachable directly from v. The returned slice is a zero-copy view into
// the mapped file and must not be retained past Close. Out-of-range v
// yields an empty slice; the store never raises on lookups.
func (s *Store) ForwardEdges(v uint32) []uint32 {
	return edgeSlice(v, s.vertexCount, s.fwdOffsets, s.fwdDestIDs)
}

// BackwardEdges is the transpose of ForwardEdges: the sorted list of
// vertices with a direct edge into v.
func (s *Store) BackwardEdges(v uint32) []uint32 {
	return edgeSlice(v, s.vertexCount, s.bwdOffsets, s.bwdDestIDs)
}

func edgeSlice(v uint32, vertexCount uint32, offsets []uint64, destIDs []uint32) []uint32 {
	if v == 0 || v >= vertexCount {
		return nil
	}
	start, end := offsets[v], offsets[v+1]
	return destIDs[start:end]
}

// HasForwardEdge reports whether the edge (u,v) exists, via binary
// search over the sorted adjacency list.
func (s *Store) HasForwardEdge(u, v uint32) bool {
	return containsSorted(s.ForwardEdges(u), v)
}

func containsSorted(sorted []uint32, v uint32) bool {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case sorted[mid] == v:
			return true
		case sorted[mid] < v:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}
