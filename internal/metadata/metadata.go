// Package metadata implements component B: a memory-mapped page-id <->
// title store plus the annotated (src,dst) link-text table.
//
// On-disk layout (little-endian):
//
//	8 bytes  magic
//	4 bytes  format version
//	4 bytes  reserved
//	8 bytes  page_count (== graphfile vertex_count)
//	8 bytes  link_count
//	(page_count+1) x 8 bytes  title offsets into the title arena
//	title arena: concatenated UTF-8 title bytes, id-sorted
//	link_count entries, sorted by (src,dst), each:
//	    4 bytes src, 4 bytes dst, 1 byte kind (0=pipe-trick sentinel,
//	    1=explicit text), 8 bytes text offset, 8 bytes text length
//	link-text arena: concatenated UTF-8 explicit link text
package metadata

import (
	"encoding/binary"
	"os"
	"sort"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/maksverver/wikipath/internal/wikierr"
)

// Magic identifies a wikipath metadata file.
var Magic = [8]byte{'w', 'p', 'm', 'e', 't', 'a', ' ', '1'}

// Version is the only format version this package understands.
const Version uint32 = 1

const headerSize = 8 + 4 + 4 + 8 + 8

const linkEntrySize = 4 + 4 + 1 + 8 + 8

// Page is a resolved (id, title) pair.
type Page struct {
	ID    uint32
	Title string
}

// Link is a resolved (src, dst, text) triple. Text is nil when no
// link-text record exists (callers should display the destination
// title), or a non-nil pointer to the empty string for the pipe-trick
// sentinel (callers derive the text via PipeTrick), or a pointer to the
// explicit recorded text otherwise.
type Link struct {
	SrcID uint32
	DstID uint32
	Text  *string
}

type linkEntry struct {
	src, dst  uint32
	pipeTrick bool
	text      string
}

// Store is an opened, memory-mapped metadata file.
type Store struct {
	file   *os.File
	data   []byte
	locked bool

	pageCount uint32
	linkCount uint32

	titleOffsets []uint64
	titleArena   []byte

	links     []linkEntry
	titleToID *treemap.Map // string -> uint32
}

// Open memory-maps path and validates its header.
func Open(path string, lockIntoMemory bool) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wikierr.WrapIoError("open metadata file", err)
	}
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, wikierr.WrapIoError("stat metadata file", err)
	}
	if info.Size() < headerSize {
		return nil, wikierr.NewInvalidFormat("metadata file too small to contain a header: %d bytes", info.Size())
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, wikierr.WrapIoError("mmap metadata file", err)
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

	if lockIntoMemory {
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
		return nil, wikierr.NewUnsupported("unsupported metadata file version %d", version)
	}
	pageCount := uint32(binary.LittleEndian.Uint64(data[16:24]))
	linkCount := uint32(binary.LittleEndian.Uint64(data[24:32]))

	offsetsLen := int(pageCount) + 1
	offsetsStart := headerSize
	offsetsEnd := offsetsStart + offsetsLen*8
	titleOffsets := bytesToUint64Slice(data[offsetsStart:offsetsEnd])
	if len(titleOffsets) == 0 {
		return nil, wikierr.NewInvalidFormat("metadata file has no title offsets")
	}
	titleArenaLen := int(titleOffsets[len(titleOffsets)-1])
	titleArenaStart := offsetsEnd
	titleArenaEnd := titleArenaStart + titleArenaLen
	if titleArenaEnd > len(data) {
		return nil, wikierr.NewInvalidFormat("metadata title arena overruns file")
	}
	titleArena := data[titleArenaStart:titleArenaEnd]

	linksStart := titleArenaEnd
	linksEnd := linksStart + int(linkCount)*linkEntrySize
	if linksEnd > len(data) {
		return nil, wikierr.NewInvalidFormat("metadata link table overruns file")
	}
	textArena := data[linksEnd:]

	links := make([]linkEntry, linkCount)
	for i := 0; i < int(linkCount); i++ {
		e := data[linksStart+i*linkEntrySize:]
		src := binary.LittleEndian.Uint32(e[0:4])
		dst := binary.LittleEndian.Uint32(e[4:8])
		kind := e[8]
		textOff := binary.LittleEndian.Uint64(e[9:17])
		textLen := binary.LittleEndian.Uint64(e[17:25])
		if textOff+textLen > uint64(len(textArena)) {
			return nil, wikierr.NewInvalidFormat("metadata link text out of range")
		}
		links[i] = linkEntry{
			src:       src,
			dst:       dst,
			pipeTrick: kind == 0,
			text:      string(textArena[textOff : textOff+textLen]),
		}
	}

	titleToID := treemap.NewWithStringComparator()
	for id := uint32(1); id < pageCount; id++ {
		start, end := titleOffsets[id], titleOffsets[id+1]
		if end > start {
			titleToID.Put(string(titleArena[start:end]), id)
		}
	}

	return &Store{
		data:         data,
		pageCount:    pageCount,
		linkCount:    linkCount,
		titleOffsets: titleOffsets,
		titleArena:   titleArena,
		links:        links,
		titleToID:    titleToID,
	}, nil
}

func bytesToUint64Slice(b []byte) []uint64 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&b[0])), len(b)/8)
}

// Close releases the memory mapping.
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
		return wikierr.WrapIoError("close metadata file", err)
	}
	return nil
}

// PageCount returns the number of page slots, including the reserved
// sentinel id 0.
func (s *Store) PageCount() uint32 { return s.pageCount }

// GetPageByID resolves a page id to its title. ok is false for id 0, an
// out-of-range id, or an id with no recorded title.
func (s *Store) GetPageByID(id uint32) (page Page, ok bool) {
	if id == 0 || id >= s.pageCount {
		return Page{}, false
	}
	start, end := s.titleOffsets[id], s.titleOffsets[id+1]
	if end == start {
		return Page{}, false
	}
	return Page{ID: id, Title: string(s.titleArena[start:end])}, true
}

// GetPageByTitle resolves an exact title to its page.
func (s *Store) GetPageByTitle(title string) (page Page, ok bool) {
	v, found := s.titleToID.Get(title)
	if !found {
		return Page{}, false
	}
	return Page{ID: v.(uint32), Title: title}, true
}

// GetLink resolves the recorded link-text entry for (src,dst), if any.
func (s *Store) GetLink(src, dst uint32) (link Link, ok bool) {
	i := sort.Search(len(s.links), func(i int) bool {
		l := s.links[i]
		return l.src > src || (l.src == src && l.dst >= dst)
	})
	if i >= len(s.links) || s.links[i].src != src || s.links[i].dst != dst {
		return Link{}, false
	}
	e := s.links[i]
	text := e.text
	if e.pipeTrick {
		// The pipe-trick sentinel is always the empty string, regardless
		// of what the (normally zero-length) text-arena slice holds.
		text = ""
	}
	return Link{SrcID: src, DstID: dst, Text: &text}, true
}

// LinkText resolves the text that should be displayed for the link
// (src,dst), applying the null / pipe-trick / explicit resolution rules
// against destTitle (the destination page's title).
func LinkText(link Link, found bool, destTitle string) string {
	if !found || link.Text == nil {
		return destTitle
	}
	if *link.Text == "" {
		return PipeTrick(destTitle)
	}
	return *link.Text
}
