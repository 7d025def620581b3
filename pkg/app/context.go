package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Output streams. Reports go to Stdout, logs to Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives diagnostics from the decoder and the commands
	Logger *slog.Logger

	// Progress reporting
	ProgressCallback func(message string, percent int)
}

// NewContext creates a new application context writing to the process's
// standard streams
func NewContext() *Context {
	c := &Context{
		Context:      context.Background(),
		OutputFormat: "table",
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
	c.SetLogLevel("")
	return c
}

// SetLogLevel rebuilds the logger. An empty level is derived from the
// verbose and quiet settings: debug when verbose, error when quiet and warn
// otherwise.
func (c *Context) SetLogLevel(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		switch {
		case c.Quiet:
			lvl = slog.LevelError
		case c.Verbose:
			lvl = slog.LevelDebug
		default:
			lvl = slog.LevelWarn
		}
	}

	c.Logger = slog.New(slog.NewTextHandler(c.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// WithCancel creates a cancellable context
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

// Log outputs a message based on verbosity settings
func (c *Context) Log(message string, args ...any) {
	if !c.Quiet && c.Verbose {
		c.Logger.Info(message, args...)
	}
}

// Error outputs an error message unless quiet
func (c *Context) Error(message string, args ...any) {
	if !c.Quiet {
		c.Logger.Error(message, args...)
	}
}
