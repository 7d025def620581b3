package verify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/cespare/xxhash/v2"

	"github.com/deploymenttheory/go-applesingle/pkg/app"
	"github.com/deploymenttheory/go-applesingle/pkg/app/inspect"
	"github.com/deploymenttheory/go-applesingle/pkg/applesingle"
)

// Handle decodes every container with both the streaming and the seekable
// decoder and checks that they agree on metadata and fork contents
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	paths, err := inspect.ExpandPaths(req.Paths)
	if err != nil {
		return nil, err
	}

	response := &Response{}
	for i, path := range paths {
		result := verifyFile(ctx, path)
		if result.OK {
			response.Passed++
		} else {
			response.Failed++
		}
		response.Results = append(response.Results, result)
		ctx.Progress(fmt.Sprintf("Verified %s", path), (i+1)*100/len(paths))
	}

	return response, nil
}

// streamed is what the streaming decoder saw
type streamed struct {
	archive *applesingle.Archive
	forks   map[uint32]*xxhash.Digest
}

func verifyFile(ctx *app.Context, path string) Result {
	result := Result{Path: path}

	f, err := os.Open(path)
	if err != nil {
		result.Error = app.NewError(app.ErrCodeIOFailed, "failed to open file", err).Error()
		return result
	}
	defer f.Close()

	s, err := decodeStream(ctx, f)
	if err != nil {
		result.Error = app.NewError(app.ErrCodeDecodeFailed, "streaming decode failed", err).Error()
		return result
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		result.Error = app.NewError(app.ErrCodeIOFailed, "failed to rewind file", err).Error()
		return result
	}

	sa, err := applesingle.ParseSeekable(f, applesingle.WithLogger(ctx.Logger))
	if err != nil {
		result.Error = app.NewError(app.ErrCodeDecodeFailed, "seekable decode failed", err).Error()
		return result
	}

	result.Mismatches = compareArchives(s.archive, sa.Archive)

	for _, seg := range sa.Segments() {
		want, ok := s.forks[seg.ID]
		if !ok {
			continue
		}

		r, err := sa.Entry(seg.ID)
		if err != nil {
			result.Error = app.NewError(app.ErrCodeDecodeFailed, fmt.Sprintf("failed to open %s", seg), err).Error()
			return result
		}
		got := xxhash.New()
		if _, err := io.Copy(got, r); err != nil {
			result.Error = app.NewError(app.ErrCodeIOFailed, fmt.Sprintf("failed to read %s", seg), err).Error()
			return result
		}

		fp := Fingerprint{
			Entry:  fmt.Sprint(seg),
			Size:   int64(seg.Length),
			Stream: fmt.Sprintf("%016x", want.Sum64()),
			Seek:   fmt.Sprintf("%016x", got.Sum64()),
		}
		if fp.Stream != fp.Seek {
			result.Mismatches = append(result.Mismatches, fmt.Sprintf("%s contents differ", seg))
		}
		result.Forks = append(result.Forks, fp)
	}

	if len(result.Forks) != len(s.forks) {
		result.Mismatches = append(result.Mismatches,
			fmt.Sprintf("streaming decode saw %d forks, seekable decode %d", len(s.forks), len(result.Forks)))
	}

	result.OK = len(result.Mismatches) == 0
	if !result.OK {
		ctx.Logger.Warn("decoders disagree", "path", path, "mismatches", result.Mismatches)
	}
	return result
}

func decodeStream(ctx *app.Context, r io.Reader) (*streamed, error) {
	s := &streamed{forks: make(map[uint32]*xxhash.Digest)}

	h := applesingle.HandlerFunc(func(f applesingle.Fork) io.Writer {
		d := xxhash.New()
		s.forks[f.ID] = d
		return d
	})

	a, err := applesingle.Parse(bufio.NewReader(r), h, applesingle.WithLogger(ctx.Logger))
	if err != nil {
		return nil, err
	}
	s.archive = a
	return s, nil
}

// compareArchives lists the fields on which the two archives differ
func compareArchives(a, b *applesingle.Archive) []string {
	var diffs []string
	check := func(field string, x, y any) {
		if !reflect.DeepEqual(x, y) {
			diffs = append(diffs, fmt.Sprintf("%s: stream %v, seek %v", field, x, y))
		}
	}

	check("format", a.Format(), b.Format())
	check("segments", a.Segments(), b.Segments())
	check("replaced", a.Replaced(), b.Replaced())
	check("name", pair(a.Name()), pair(b.Name()))
	check("comment", pair(a.Comment()), pair(b.Comment()))
	check("dates", pair(a.Dates()), pair(b.Dates()))
	check("finder info", pair(a.FinderInfo()), pair(b.FinderInfo()))
	check("mac info", pair(a.MacInfo()), pair(b.MacInfo()))
	return diffs
}

// pair packs an accessor's (value, ok) result for comparison
func pair(v any, ok bool) any {
	if !ok {
		return nil
	}
	return v
}
