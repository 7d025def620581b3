package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/interfaces"
)

// segmentTable implements the SegmentTable interface
type segmentTable struct {
	count    uint16
	segments map[uint32]types.Segment
	replaced []types.Segment
}

// Ensure interface compliance
var _ interfaces.SegmentTable = (*segmentTable)(nil)

// ReadHeader reads the fixed header and the descriptor table from r, which must
// be positioned at the start of the container. On success exactly
// 26 + 12*count bytes have been consumed.
func ReadHeader(r io.Reader, logger *slog.Logger) (interfaces.SegmentTable, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var fixed [types.HeaderSize]byte
	if err := readFull(r, fixed[:], "header"); err != nil {
		return nil, err
	}

	count, err := parseFixedHeader(fixed[:])
	if err != nil {
		return nil, err
	}

	table := &segmentTable{
		count:    count,
		segments: make(map[uint32]types.Segment, count),
	}

	var desc [types.DescriptorSize]byte
	for i := 0; i < int(count); i++ {
		if err := readFull(r, desc[:], fmt.Sprintf("descriptor %d of %d", i+1, count)); err != nil {
			return nil, err
		}

		seg := parseDescriptor(desc[:])
		if prev, ok := table.segments[seg.ID]; ok {
			logger.Warn("duplicate entry id, earlier descriptor dropped",
				slog.Any("entry", types.EntryID(seg.ID)),
				slog.Any("dropped", prev),
				slog.Any("kept", seg))
			table.replaced = append(table.replaced, prev)
		}
		table.segments[seg.ID] = seg
	}

	return table, nil
}

// parseFixedHeader validates the magic number and version and returns the entry count
func parseFixedHeader(data []byte) (uint16, error) {
	if len(data) < types.HeaderSize {
		return 0, fmt.Errorf("%w: header is %d bytes", types.ErrTruncated, len(data))
	}

	magic := binary.BigEndian.Uint32(data[0:4])
	if magic != types.Magic {
		return 0, fmt.Errorf("%w: bad magic 0x%08X", types.ErrFormatMismatch, magic)
	}

	version := binary.BigEndian.Uint32(data[4:8])
	if version != types.Version {
		return 0, fmt.Errorf("%w: unsupported version 0x%08X", types.ErrFormatMismatch, version)
	}

	// data[8:24] is reserved filler
	return binary.BigEndian.Uint16(data[8+types.ReservedSize : types.HeaderSize]), nil
}

// parseDescriptor parses one 12-byte entry descriptor
func parseDescriptor(data []byte) types.Segment {
	return types.Segment{
		ID:     binary.BigEndian.Uint32(data[0:4]),
		Offset: binary.BigEndian.Uint32(data[4:8]),
		Length: binary.BigEndian.Uint32(data[8:12]),
	}
}

// readFull reads len(buf) bytes, reporting a short read as ErrTruncated
func readFull(r io.Reader, buf []byte, what string) error {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", types.ErrTruncated, what, len(buf), n)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", what, err)
	}
	return nil
}

// Count returns the number of descriptors declared in the header
func (t *segmentTable) Count() uint16 {
	return t.count
}

// Len returns the number of distinct entry ids
func (t *segmentTable) Len() int {
	return len(t.segments)
}

// Lookup returns the descriptor kept for id
func (t *segmentTable) Lookup(id uint32) (types.Segment, bool) {
	seg, ok := t.segments[id]
	return seg, ok
}

// ByOffset returns the descriptors sorted by ascending offset, then id
func (t *segmentTable) ByOffset() []types.Segment {
	segs := make([]types.Segment, 0, len(t.segments))
	for _, seg := range t.segments {
		segs = append(segs, seg)
	}
	sort.Slice(segs, func(i, j int) bool {
		if segs[i].Offset != segs[j].Offset {
			return segs[i].Offset < segs[j].Offset
		}
		return segs[i].ID < segs[j].ID
	})
	return segs
}

// Replaced returns descriptors overwritten by a later same-id descriptor
func (t *segmentTable) Replaced() []types.Segment {
	return append([]types.Segment(nil), t.replaced...)
}
