package applesingle

import "github.com/deploymenttheory/go-applesingle/applesingle/types"

// Errors re-exported from types.
var (
	// ErrFormatMismatch is returned when the magic number or version is wrong.
	ErrFormatMismatch = types.ErrFormatMismatch

	// ErrTruncated is returned when the input ends before a declared structure does.
	ErrTruncated = types.ErrTruncated

	// ErrOutOfOrder is returned by Parse when a segment starts before the
	// current read position.
	ErrOutOfOrder = types.ErrOutOfOrder

	// ErrMissingField is returned by Builder.Build when the format was never set.
	ErrMissingField = types.ErrMissingField

	// ErrMalformed is returned when a fixed-size metadata entry is too short.
	ErrMalformed = types.ErrMalformed

	// ErrNoSuchEntry is returned by SeekableArchive accessors for absent entries.
	ErrNoSuchEntry = types.ErrNoSuchEntry
)
