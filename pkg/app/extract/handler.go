package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/pkg/app"
	"github.com/deploymenttheory/go-applesingle/pkg/applesingle"
)

// pending is a fork being streamed into a temporary file. Forks can come
// before the real name entry, so the final name is only known after the decode.
type pending struct {
	fork    applesingle.Fork
	tmpPath string
	file    *os.File
	enc     *zstd.Encoder
	written int64
}

// Write implements io.Writer for pending
func (p *pending) Write(b []byte) (int, error) {
	var n int
	var err error
	if p.enc != nil {
		n, err = p.enc.Write(b)
	} else {
		n, err = p.file.Write(b)
	}
	p.written += int64(n)
	return n, err
}

// close flushes the encoder, if any, and closes the file
func (p *pending) close() error {
	var encErr error
	if p.enc != nil {
		encErr = p.enc.Close()
		p.enc = nil
	}
	if p.file == nil {
		return encErr
	}
	fileErr := p.file.Close()
	p.file = nil
	return errors.Join(encErr, fileErr)
}

// errWriter fails every write, aborting the decode with err
type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

// Handle processes an extraction request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeIOFailed, "failed to open container", err)
	}
	defer f.Close()

	var total int64
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}

	var forks []*pending
	var sinkErr error

	progress := &app.ProgressUpdate{Message: "Extracting", Total: total, StartedAt: startTime}

	h := applesingle.HandlerFunc(func(fork applesingle.Fork) io.Writer {
		if !req.wants(fork.Kind) {
			ctx.Log("skipping fork", "fork", fork.String(), "bytes", fork.Length)
			return nil
		}

		p, err := createPending(req.Dest, fork, req.Compress)
		if err != nil {
			sinkErr = err
			return errWriter{err: err}
		}
		forks = append(forks, p)

		progress.Completed = int64(fork.Offset) + int64(fork.Length)
		ctx.Progress(fmt.Sprintf("Extracting %s", fork), progress.Percent())
		return p
	})

	src := &countingReader{r: bufio.NewReader(f)}
	archive, err := applesingle.Parse(src, h, applesingle.WithLogger(ctx.Logger))
	if err != nil {
		discard(forks)
		if sinkErr != nil {
			return nil, app.NewError(app.ErrCodeIOFailed, "failed to create output file", err)
		}
		return nil, app.NewError(app.ErrCodeDecodeFailed, "failed to decode container", err)
	}

	for _, p := range forks {
		if err := p.close(); err != nil {
			discard(forks)
			return nil, app.NewError(app.ErrCodeIOFailed, fmt.Sprintf("failed to write %s", p.fork), err)
		}
	}

	base := BaseName(archive, req.Path)
	response := &Response{
		Source:    req.Path,
		Name:      base,
		BytesRead: src.n,
	}

	for i, p := range forks {
		final := filepath.Join(req.Dest, OutputName(base, p.fork, req.Compress))
		if err := commit(p.tmpPath, final, req.Overwrite); err != nil {
			// Files committed before the failure are kept
			discard(forks[i:])
			return nil, app.NewError(app.ErrCodeIOFailed, fmt.Sprintf("failed to store %s", p.fork), err)
		}

		if d, ok := archive.Dates(); ok {
			if err := os.Chtimes(final, d.Access.Time(), d.Modify.Time()); err != nil {
				ctx.Logger.Warn("failed to set file times", "path", final, "error", err)
			}
		}

		response.Files = append(response.Files, ExtractedFile{
			Kind:       p.fork.Kind.String(),
			Entry:      types.EntryID(p.fork.ID).String(),
			Path:       final,
			Size:       p.written,
			Compressed: req.Compress,
		})
		ctx.Log("extracted fork", "fork", p.fork.String(), "path", final)
	}

	progress.Completed = total
	progress.ElapsedTime = time.Since(startTime)
	ctx.Progress("Complete", progress.Percent())
	ctx.Log("extraction completed", "files", len(response.Files), "bytes_per_second", int64(progress.Rate()))

	response.ElapsedTime = progress.ElapsedTime
	return response, nil
}

// createPending opens a uniquely named temporary file in dir for fork
func createPending(dir string, fork applesingle.Fork, compress bool) (*pending, error) {
	tmpPath := filepath.Join(dir, fmt.Sprintf(".applesingle-%s.tmp", uuid.New()))
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	p := &pending{fork: fork, tmpPath: tmpPath, file: file}
	if compress {
		enc, err := zstd.NewWriter(file)
		if err != nil {
			file.Close()
			os.Remove(tmpPath)
			return nil, fmt.Errorf("failed to start zstd encoder: %w", err)
		}
		p.enc = enc
	}
	return p, nil
}

// discard closes and removes the temporary files of ps
func discard(ps []*pending) {
	for _, p := range ps {
		_ = p.close()
		_ = os.Remove(p.tmpPath)
	}
}

// commit moves a finished temporary file to its final name
func commit(tmpPath, final string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Lstat(final); err == nil {
			return fmt.Errorf("%s already exists", final)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return os.Rename(tmpPath, final)
}

// BaseName returns the name extracted files are derived from: the real name
// entry when it yields a usable file name, otherwise the container's file name
// without its extension.
func BaseName(a *applesingle.Archive, containerPath string) string {
	if name, ok := a.Name(); ok {
		text := string(name)
		if !name.Valid() {
			text = name.MacRoman()
		}
		if s := SanitizeName(text); s != "" {
			return s
		}
	}

	base := filepath.Base(containerPath)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if s := SanitizeName(base); s != "" {
		return s
	}
	return "untitled"
}

// SanitizeName makes a classic Mac file name safe to use as a single path
// element. It returns "" when nothing usable is left.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return ':'
		case r < 0x20 || r == 0x7F || r == utf8.RuneError:
			return '_'
		}
		return r
	}, name)

	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// OutputName returns the file name used for fork
func OutputName(base string, fork applesingle.Fork, compress bool) string {
	var name string
	switch fork.Kind {
	case applesingle.ForkData:
		name = base
	case applesingle.ForkResource:
		name = base + ".rsrc"
	default:
		name = base + "." + strings.ToLower(types.EntryID(fork.ID).String())
	}
	if compress {
		name += ".zst"
	}
	return name
}

// countingReader counts the bytes read through it
type countingReader struct {
	r io.Reader
	n int64
}

// Read implements io.Reader for countingReader
func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
