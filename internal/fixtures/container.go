// Package fixtures builds synthetic AppleSingle containers for tests.
package fixtures

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
)

// Entry is one entry to place in a synthetic container.
type Entry struct {
	ID   uint32
	Data []byte
}

// Layout describes a synthetic container. Entry data is placed back to back
// after the descriptor table, in slice order, each preceded by Gap filler bytes.
type Layout struct {
	Entries []Entry
	Gap     int
	// ReverseTable lists the descriptors in the reverse of the data order.
	ReverseTable bool
	// Magic and Version override the header constants when non-zero.
	Magic   uint32
	Version uint32
}

// Build lays out entries with the default layout.
func Build(entries ...Entry) []byte {
	return Layout{Entries: entries}.Bytes()
}

// Segments returns the descriptors Bytes would write, in data order.
func (l Layout) Segments() []types.Segment {
	offset := types.HeaderSize + types.DescriptorSize*len(l.Entries)
	segs := make([]types.Segment, 0, len(l.Entries))
	for _, e := range l.Entries {
		offset += l.Gap
		segs = append(segs, types.Segment{ID: e.ID, Offset: uint32(offset), Length: uint32(len(e.Data))})
		offset += len(e.Data)
	}
	return segs
}

// Bytes encodes the container.
func (l Layout) Bytes() []byte {
	segs := l.Segments()
	table := append([]types.Segment(nil), segs...)
	if l.ReverseTable {
		for i, j := 0, len(table)-1; i < j; i, j = i+1, j-1 {
			table[i], table[j] = table[j], table[i]
		}
	}

	buf := Header(table, l.Magic, l.Version)
	for i, e := range l.Entries {
		for len(buf) < int(segs[i].Offset) {
			buf = append(buf, 0xA5)
		}
		buf = append(buf, e.Data...)
	}
	return buf
}

// Header encodes the fixed header and the descriptor table. Zero magic or
// version select the real constants.
func Header(table []types.Segment, magic, version uint32) []byte {
	if magic == 0 {
		magic = types.Magic
	}
	if version == 0 {
		version = types.Version
	}

	buf := make([]byte, types.HeaderSize+types.DescriptorSize*len(table))
	binary.BigEndian.PutUint32(buf[0:4], magic)
	binary.BigEndian.PutUint32(buf[4:8], version)
	copy(buf[8:24], "Mac OS X        ")
	binary.BigEndian.PutUint16(buf[24:26], uint16(len(table)))

	for i, seg := range table {
		off := types.HeaderSize + types.DescriptorSize*i
		binary.BigEndian.PutUint32(buf[off:], seg.ID)
		binary.BigEndian.PutUint32(buf[off+4:], seg.Offset)
		binary.BigEndian.PutUint32(buf[off+8:], seg.Length)
	}
	return buf
}

// Raw encodes a header with an explicit descriptor table followed by body.
// The body starts right after the table; descriptors are not checked.
func Raw(table []types.Segment, body []byte) []byte {
	return append(Header(table, 0, 0), body...)
}

// FinderInfoBytes encodes fi as an FInfo record, followed by an FXInfo record
// when fi.Extended is set.
func FinderInfoBytes(fi types.FinderInfo) []byte {
	buf := make([]byte, types.FinderInfoSize, types.FinderInfoSize+types.ExtendedFinderInfoSize)
	copy(buf[0:4], fi.FileType[:])
	copy(buf[4:8], fi.Creator[:])
	binary.BigEndian.PutUint16(buf[8:10], uint16(fi.Flags))
	binary.BigEndian.PutUint16(buf[10:12], uint16(fi.Location.V))
	binary.BigEndian.PutUint16(buf[12:14], uint16(fi.Location.H))
	binary.BigEndian.PutUint16(buf[14:16], fi.Folder)

	if x := fi.Extended; x != nil {
		ext := make([]byte, types.ExtendedFinderInfoSize)
		binary.BigEndian.PutUint16(ext[0:2], uint16(x.IconID))
		ext[8] = byte(x.Script)
		ext[9] = x.XFlags
		binary.BigEndian.PutUint16(ext[10:12], uint16(x.CommentID))
		binary.BigEndian.PutUint32(ext[12:16], uint32(x.PutAway))
		buf = append(buf, ext...)
	}
	return buf
}

// DatesBytes encodes a file dates entry.
func DatesBytes(d types.Dates) []byte {
	buf := make([]byte, types.FileDatesSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(d.Create))
	binary.BigEndian.PutUint32(buf[4:8], uint32(d.Modify))
	binary.BigEndian.PutUint32(buf[8:12], uint32(d.Backup))
	binary.BigEndian.PutUint32(buf[12:16], uint32(d.Access))
	return buf
}

// MacInfoBytes encodes a Macintosh file info entry.
func MacInfoBytes(m types.MacInfo) []byte {
	buf := make([]byte, types.MacInfoSize)
	binary.BigEndian.PutUint32(buf, uint32(m))
	return buf
}
