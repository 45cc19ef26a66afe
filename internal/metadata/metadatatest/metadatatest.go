// Package metadatatest builds metadata-file byte images in memory for
// use as test fixtures.
package metadatatest

import (
	"encoding/binary"
	"sort"
)

type linkSpec struct {
	src, dst  uint32
	pipeTrick bool
	text      string
}

// Builder accumulates page titles and link-text records and renders
// them into a metadata byte image via Build.
type Builder struct {
	pageCount uint32
	titles    map[uint32]string
	links     []linkSpec
}

// NewBuilder creates a builder for pageCount page slots (including the
// reserved sentinel id 0).
func NewBuilder(pageCount uint32) *Builder {
	return &Builder{pageCount: pageCount, titles: make(map[uint32]string)}
}

// SetTitle records the title for id.
func (b *Builder) SetTitle(id uint32, title string) *Builder {
	b.titles[id] = title
	return b
}

// SetExplicitLink records explicit displayed text for the link (src,dst).
func (b *Builder) SetExplicitLink(src, dst uint32, text string) *Builder {
	b.links = append(b.links, linkSpec{src: src, dst: dst, text: text})
	return b
}

// SetPipeTrickLink records the "pipe trick" sentinel for (src,dst):
// the displayed text is derived from the destination title at read
// time.
func (b *Builder) SetPipeTrickLink(src, dst uint32) *Builder {
	b.links = append(b.links, linkSpec{src: src, dst: dst, pipeTrick: true})
	return b
}

// Build renders the accumulated titles and links into a little-endian
// metadata byte image matching the format documented in package
// metadata.
func (b *Builder) Build() []byte {
	titleOffsets := make([]uint64, b.pageCount+1)
	var titleArena []byte
	for id := uint32(0); id < b.pageCount; id++ {
		titleOffsets[id] = uint64(len(titleArena))
		titleArena = append(titleArena, []byte(b.titles[id])...)
	}
	titleOffsets[b.pageCount] = uint64(len(titleArena))

	links := append([]linkSpec(nil), b.links...)
	sort.Slice(links, func(i, j int) bool {
		if links[i].src != links[j].src {
			return links[i].src < links[j].src
		}
		return links[i].dst < links[j].dst
	})

	var textArena []byte
	type entry struct {
		src, dst      uint32
		kind          byte
		textOff, txtN uint64
	}
	entries := make([]entry, len(links))
	for i, l := range links {
		kind := byte(1)
		text := l.text
		if l.pipeTrick {
			kind = 0
			text = ""
		}
		entries[i] = entry{src: l.src, dst: l.dst, kind: kind, textOff: uint64(len(textArena)), txtN: uint64(len(text))}
		textArena = append(textArena, []byte(text)...)
	}

	var buf []byte
	buf = append(buf, 'w', 'p', 'm', 'e', 't', 'a', ' ', '1')
	buf = appendUint32(buf, 1) // version
	buf = appendUint32(buf, 0) // reserved
	buf = appendUint64(buf, uint64(b.pageCount))
	buf = appendUint64(buf, uint64(len(links)))
	for _, o := range titleOffsets {
		buf = appendUint64(buf, o)
	}
	buf = append(buf, titleArena...)
	for _, e := range entries {
		buf = appendUint32(buf, e.src)
		buf = appendUint32(buf, e.dst)
		buf = append(buf, e.kind)
		buf = appendUint64(buf, e.textOff)
		buf = appendUint64(buf, e.txtN)
	}
	buf = append(buf, textArena...)
	return buf
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
