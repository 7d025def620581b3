package applesingle

import (
	"io"
	"log/slog"
)

// Option configures a decode.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used while decoding.
// Segments are logged at debug level and dropped duplicate descriptors at warn level.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
