package readers

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/interfaces"
)

// Bounded reads exactly n bytes from an underlying reader.
// Unlike io.LimitedReader it distinguishes reaching its bound, which is io.EOF,
// from the underlying reader ending early, which is types.ErrTruncated.
type Bounded struct {
	r io.Reader
	n int64
}

var _ interfaces.BoundedReader = (*Bounded)(nil)

// NewBounded returns a reader that yields at most n bytes from r.
func NewBounded(r io.Reader, n int64) *Bounded {
	return &Bounded{r: r, n: n}
}

// Read implements io.Reader for Bounded
func (b *Bounded) Read(p []byte) (int, error) {
	if b.n <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > b.n {
		p = p[:b.n]
	}

	n, err := b.r.Read(p)
	b.n -= int64(n)

	if err == io.EOF {
		if b.n > 0 {
			return n, fmt.Errorf("%w: %d bytes missing", types.ErrTruncated, b.n)
		}
		err = nil
	}
	return n, err
}

// Remaining returns the number of bytes left before the bound.
func (b *Bounded) Remaining() int64 {
	return b.n
}

// drain discards whatever is left of r.
func drain(r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}
