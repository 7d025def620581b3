package inspect

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/deploymenttheory/go-applesingle/pkg/app"
)

// MaxConcurrency bounds Request.Concurrency
const MaxConcurrency = 256

// Validate validates an inspection request
func (r *Request) Validate() error {
	if len(r.Paths) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "at least one path is required", nil)
	}

	for _, p := range r.Paths {
		if p == "" {
			return app.NewError(app.ErrCodeInvalidInput, "empty path", nil)
		}
		if !doublestar.ValidatePathPattern(p) {
			return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("invalid pattern: %s", p), nil)
		}
	}

	switch r.Mode {
	case ModeStream, ModeSeek:
	default:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("invalid mode %q, use stream or seek", r.Mode), nil)
	}

	if r.Concurrency < 1 || r.Concurrency > MaxConcurrency {
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("concurrency must be between 1 and %d", MaxConcurrency), nil)
	}

	return nil
}
