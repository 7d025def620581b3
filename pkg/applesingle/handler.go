package applesingle

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
)

// ForkKind identifies which kind of payload a Fork is.
type ForkKind int

const (
	// ForkData is the data fork.
	ForkData ForkKind = iota
	// ForkResource is the resource fork.
	ForkResource
	// ForkOther is any entry whose contents are not interpreted.
	ForkOther
)

func (k ForkKind) String() string {
	switch k {
	case ForkData:
		return "data"
	case ForkResource:
		return "resource"
	case ForkOther:
		return "other"
	default:
		return fmt.Sprintf("ForkKind(%d)", int(k))
	}
}

// Fork identifies a payload offered to a Handler.
type Fork struct {
	Kind ForkKind
	// ID is the raw entry id.
	ID uint32
	// Offset is the absolute position of the payload in the container.
	Offset uint32
	// Length is the payload size in bytes.
	Length uint32
}

// Segment returns the descriptor the fork was read from.
func (f Fork) Segment() types.Segment {
	return types.Segment{ID: f.ID, Offset: f.Offset, Length: f.Length}
}

func (f Fork) String() string {
	if f.Kind == ForkOther {
		return fmt.Sprintf("%s fork %s", f.Kind, types.EntryID(f.ID))
	}
	return fmt.Sprintf("%s fork", f.Kind)
}

// Handler supplies sinks for fork payloads during a streaming decode.
type Handler interface {
	// Sink returns the writer that receives the fork's bytes. A nil writer
	// discards the payload.
	Sink(f Fork) io.Writer
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(Fork) io.Writer

// Sink calls h(f).
func (h HandlerFunc) Sink(f Fork) io.Writer {
	return h(f)
}

// Discard is a Handler that drops every payload.
var Discard Handler = HandlerFunc(func(Fork) io.Writer { return nil })
