package readers

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/interfaces"
)

// SeekSource serves segments from a random-access reader.
// Segments can be opened in any order and any number of times, but all
// readers share the underlying cursor: opening a segment invalidates any
// reader returned earlier.
type SeekSource struct {
	rs   io.ReadSeeker
	size int64
}

var _ interfaces.SegmentSource = (*SeekSource)(nil)

// NewSeekSource measures rs and rewinds it to the start.
func NewSeekSource(rs io.ReadSeeker) (*SeekSource, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to seek to end: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to start: %w", err)
	}
	return &SeekSource{rs: rs, size: size}, nil
}

// Read implements io.Reader for SeekSource at the current cursor.
func (s *SeekSource) Read(p []byte) (int, error) {
	return s.rs.Read(p)
}

// Size returns the size of the source measured when it was opened.
func (s *SeekSource) Size() int64 {
	return s.size
}

// Check reports types.ErrTruncated if the segment extends past the end of the source.
func (s *SeekSource) Check(seg types.Segment) error {
	if seg.End() > uint64(s.size) {
		return fmt.Errorf("%w: %s ends at %d, input is %d bytes", types.ErrTruncated, seg, seg.End(), s.size)
	}
	return nil
}

// Open seeks to the segment and bounds reading to its length.
func (s *SeekSource) Open(seg types.Segment) (interfaces.BoundedReader, error) {
	if err := s.Check(seg); err != nil {
		return nil, err
	}
	if _, err := s.rs.Seek(int64(seg.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to %s: %w", seg, err)
	}
	return NewBounded(s.rs, int64(seg.Length)), nil
}

// Release is a no-op: the next Open repositions the cursor anyway.
func (s *SeekSource) Release(interfaces.BoundedReader) error {
	return nil
}
