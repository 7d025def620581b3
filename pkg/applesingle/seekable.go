package applesingle

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/interfaces"
	"github.com/deploymenttheory/go-applesingle/internal/readers"
)

// SeekableArchive is an Archive whose fork payloads stay in the source and
// are read on demand.
//
// All readers returned by a SeekableArchive share the source's cursor, so only
// the most recently returned reader is valid. A SeekableArchive is not safe
// for concurrent use.
type SeekableArchive struct {
	*Archive

	src    *readers.SeekSource
	table  interfaces.SegmentTable
	data   *types.Segment
	rsrc   *types.Segment
	others []types.Segment
}

// ParseSeekable decodes an AppleSingle container from a random-access source.
//
// The source size is measured first and every descriptor must lie inside it,
// otherwise ErrTruncated is returned. Metadata is decoded during the call;
// fork payloads are only located. The returned archive keeps rs for later
// reads, so the caller must keep it open for as long as the archive is used.
func ParseSeekable(rs io.ReadSeeker, opts ...Option) (*SeekableArchive, error) {
	o := newOptions(opts)

	src, err := readers.NewSeekSource(rs)
	if err != nil {
		return nil, err
	}

	s := &SeekableArchive{src: src}
	d := &decoder{
		src:    src,
		logger: o.logger,
		fork: func(f Fork, _ io.Reader) error {
			seg := f.Segment()
			switch f.Kind {
			case ForkData:
				s.data = &seg
			case ForkResource:
				s.rsrc = &seg
			default:
				s.others = append(s.others, seg)
			}
			return nil
		},
	}

	a, table, err := d.decode(src)
	if err != nil {
		return nil, err
	}

	s.Archive = a
	s.table = table
	return s, nil
}

// HasDataFork reports whether the container has a data fork entry.
func (s *SeekableArchive) HasDataFork() bool {
	return s.data != nil
}

// HasResourceFork reports whether the container has a resource fork entry.
func (s *SeekableArchive) HasResourceFork() bool {
	return s.rsrc != nil
}

// DataForkSize returns the length of the data fork, or 0 if there is none.
func (s *SeekableArchive) DataForkSize() int64 {
	if s.data == nil {
		return 0
	}
	return int64(s.data.Length)
}

// ResourceForkSize returns the length of the resource fork, or 0 if there is none.
func (s *SeekableArchive) ResourceForkSize() int64 {
	if s.rsrc == nil {
		return 0
	}
	return int64(s.rsrc.Length)
}

// DataFork returns a reader over the data fork.
// It returns ErrNoSuchEntry if the container has no data fork.
func (s *SeekableArchive) DataFork() (io.Reader, error) {
	if s.data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchEntry, types.EntryDataFork)
	}
	return s.src.Open(*s.data)
}

// ResourceFork returns a reader over the resource fork.
// It returns ErrNoSuchEntry if the container has no resource fork.
func (s *SeekableArchive) ResourceFork() (io.Reader, error) {
	if s.rsrc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchEntry, types.EntryResourceFork)
	}
	return s.src.Open(*s.rsrc)
}

// Entries returns the descriptors of the entries whose contents are not
// interpreted, in traversal order.
func (s *SeekableArchive) Entries() []types.Segment {
	return append([]types.Segment(nil), s.others...)
}

// Entry returns a reader over the raw bytes of any entry in the table,
// interpreted or not. It returns ErrNoSuchEntry if the id is absent.
func (s *SeekableArchive) Entry(id uint32) (io.Reader, error) {
	seg, ok := s.table.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchEntry, types.EntryID(id))
	}
	return s.src.Open(seg)
}
