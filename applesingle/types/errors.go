package types

import "errors"

// Decode errors. Every failure returned by the decoder wraps exactly one of these.
var (
	// ErrFormatMismatch is returned when the magic number or version is wrong.
	ErrFormatMismatch = errors.New("not an AppleSingle container")

	// ErrTruncated is returned when the input ends before a declared structure does.
	ErrTruncated = errors.New("truncated AppleSingle container")

	// ErrOutOfOrder is returned by the streaming decoder when a segment starts
	// before the current read position, which a forward-only source cannot reach.
	ErrOutOfOrder = errors.New("segment lies behind the read position")

	// ErrMissingField is returned when a mandatory archive field was never set.
	ErrMissingField = errors.New("mandatory archive field missing")

	// ErrMalformed is returned when a fixed-size metadata entry is too short to decode.
	ErrMalformed = errors.New("malformed entry")

	// ErrNoSuchEntry is returned when a seekable archive has no entry of the requested kind.
	ErrNoSuchEntry = errors.New("no such entry")
)
