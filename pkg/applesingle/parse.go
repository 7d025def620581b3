package applesingle

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-applesingle/internal/readers"
)

// Parse decodes an AppleSingle container from a forward-only reader.
//
// Segments are visited in ascending offset order. Each fork payload (data,
// resource and uninterpreted entries) is offered to h; a non-nil sink receives
// exactly the payload's bytes, a nil sink means the payload is discarded. A nil
// h discards every payload.
//
// Because r cannot rewind, a segment that starts before the end of the
// previous one, or inside the header, fails with ErrOutOfOrder. Any failure
// aborts the decode and no archive is returned.
func Parse(r io.Reader, h Handler, opts ...Option) (*Archive, error) {
	o := newOptions(opts)
	if h == nil {
		h = Discard
	}

	src := readers.NewForwardSource(r)
	d := &decoder{
		src:    src,
		logger: o.logger,
		fork: func(f Fork, payload io.Reader) error {
			w := h.Sink(f)
			if w == nil {
				return nil
			}
			if _, err := io.CopyN(w, payload, int64(f.Length)); err != nil {
				return fmt.Errorf("failed to copy %s: %w", f, err)
			}
			return nil
		},
	}

	a, _, err := d.decode(src)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("decoded archive", "bytes_read", src.Offset())
	return a, nil
}
