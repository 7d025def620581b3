// File: internal/interfaces/applesingle.go
package interfaces

import (
	"io"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
)

// SegmentTable provides access to a container's table of contents
type SegmentTable interface {
	// Count returns the number of descriptors declared in the header
	Count() uint16

	// Len returns the number of distinct entry ids in the table
	Len() int

	// Lookup returns the descriptor kept for a raw entry id
	Lookup(id uint32) (types.Segment, bool)

	// ByOffset returns the descriptors in traversal order: ascending offset,
	// ties broken by ascending id
	ByOffset() []types.Segment

	// Replaced returns descriptors that were overwritten by a later descriptor
	// with the same id, in the order they were read
	Replaced() []types.Segment
}

// BoundedReader is a reader scoped to exactly one segment's bytes
type BoundedReader interface {
	io.Reader

	// Remaining returns the number of segment bytes not yet read
	Remaining() int64
}

// SegmentSource obtains the bytes of one segment at a time. The streaming and
// seekable decoders differ only in their SegmentSource.
type SegmentSource interface {
	// Open positions the source at the segment and returns a reader that
	// yields exactly seg.Length bytes
	Open(seg types.Segment) (BoundedReader, error)

	// Release finishes a segment previously returned by Open
	Release(r BoundedReader) error
}
