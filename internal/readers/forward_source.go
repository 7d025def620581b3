package readers

import (
	"errors"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/interfaces"
)

// ForwardSource serves segments from a reader that cannot seek.
// It tracks how many bytes have been consumed and only ever moves forward.
type ForwardSource struct {
	r      io.Reader
	offset int64
}

var _ interfaces.SegmentSource = (*ForwardSource)(nil)

// NewForwardSource wraps r, which must be positioned at the start of the container.
func NewForwardSource(r io.Reader) *ForwardSource {
	return &ForwardSource{r: r}
}

// Read implements io.Reader for ForwardSource
func (s *ForwardSource) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.offset += int64(n)
	return n, err
}

// Offset returns the number of bytes consumed so far.
func (s *ForwardSource) Offset() int64 {
	return s.offset
}

// SkipTo discards bytes until the read position equals offset.
// It fails with types.ErrOutOfOrder if the position is already past offset.
func (s *ForwardSource) SkipTo(offset int64) error {
	if s.offset > offset {
		return fmt.Errorf("%w: want offset %d, already at %d", types.ErrOutOfOrder, offset, s.offset)
	}

	gap := offset - s.offset
	if gap == 0 {
		return nil
	}

	n, err := io.CopyN(io.Discard, s, gap)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: skipping to offset %d, input ended after %d of %d bytes", types.ErrTruncated, offset, n, gap)
	}
	if err != nil {
		return fmt.Errorf("failed to skip to offset %d: %w", offset, err)
	}
	return nil
}

// Open skips to the segment and bounds reading to its length.
func (s *ForwardSource) Open(seg types.Segment) (interfaces.BoundedReader, error) {
	if err := s.SkipTo(int64(seg.Offset)); err != nil {
		return nil, err
	}
	return NewBounded(s, int64(seg.Length)), nil
}

// Release drains whatever the caller left unread so that the read position
// ends exactly at the segment's end.
func (s *ForwardSource) Release(r interfaces.BoundedReader) error {
	return drain(r)
}
