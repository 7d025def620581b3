package inspect

import (
	"bufio"
	_ "crypto/sha256"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/pkg/app"
	"github.com/deploymenttheory/go-applesingle/pkg/applesingle"
)

// Handle processes an inspection request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Expand patterns
	paths, err := ExpandPaths(req.Paths)
	if err != nil {
		return nil, err
	}
	ctx.Log("inspecting containers", "files", len(paths), "mode", req.Mode, "concurrency", req.Concurrency)

	// 3. Decode every file; a failing file is reported, not fatal
	reports := make([]FileReport, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Concurrency)

	var mu sync.Mutex
	var done int

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = inspectFile(ctx, path, req)

			mu.Lock()
			done++
			ctx.Progress(fmt.Sprintf("Inspected %d of %d", done, len(paths)), done*100/len(paths))
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	response := &Response{
		Files:      reports,
		TotalFiles: len(reports),
	}
	for _, r := range reports {
		if r.Error != "" {
			response.Failed++
		}
	}
	response.ElapsedTime = time.Since(startTime)

	ctx.Log("inspection completed", "files", response.TotalFiles, "failed", response.Failed, "elapsed", response.ElapsedTime)
	return response, nil
}

// ExpandPaths expands doublestar patterns. A pattern that matches nothing is
// kept as a literal path so that the failure to open it is reported.
func ExpandPaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("invalid pattern: %s", pattern), err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		sort.Strings(matches)

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// inspectFile decodes one container into a report
func inspectFile(ctx *app.Context, path string, req *Request) FileReport {
	report := FileReport{Path: path}

	f, err := os.Open(path)
	if err != nil {
		report.Error = app.NewError(app.ErrCodeIOFailed, "failed to open file", err).Error()
		return report
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		report.Size = info.Size()
	}

	var archive *applesingle.Archive
	if req.Mode == ModeSeek {
		archive, report.Forks, err = decodeSeekable(ctx, f, req.Digest)
	} else {
		archive, report.Forks, err = decodeStream(ctx, f, req.Digest)
	}
	if err != nil {
		ctx.Logger.Warn("decode failed", "path", path, "error", err)
		report.Error = app.NewError(app.ErrCodeDecodeFailed, "failed to decode", err).Error()
		return report
	}

	fillMetadata(&report, archive)
	return report
}

// decodeStream decodes r in one pass, hashing fork payloads as they stream by
func decodeStream(ctx *app.Context, r io.Reader, withDigest bool) (*applesingle.Archive, []ForkReport, error) {
	var forks []ForkReport
	var digesters []digest.Digester

	h := applesingle.HandlerFunc(func(f applesingle.Fork) io.Writer {
		forks = append(forks, newForkReport(f.Kind, f.ID, int64(f.Length)))
		if !withDigest {
			digesters = append(digesters, nil)
			return nil
		}
		d := digest.Canonical.Digester()
		digesters = append(digesters, d)
		return d.Hash()
	})

	archive, err := applesingle.Parse(bufio.NewReader(r), h, applesingle.WithLogger(ctx.Logger))
	if err != nil {
		return nil, nil, err
	}

	for i, d := range digesters {
		if d != nil {
			forks[i].Digest = d.Digest().String()
		}
	}
	return archive, forks, nil
}

// decodeSeekable decodes the metadata of rs, then reads each fork back
func decodeSeekable(ctx *app.Context, rs io.ReadSeeker, withDigest bool) (*applesingle.Archive, []ForkReport, error) {
	sa, err := applesingle.ParseSeekable(rs, applesingle.WithLogger(ctx.Logger))
	if err != nil {
		return nil, nil, err
	}

	var forks []ForkReport
	add := func(kind applesingle.ForkKind, seg types.Segment, open func() (io.Reader, error)) error {
		fr := newForkReport(kind, seg.ID, int64(seg.Length))
		if withDigest {
			r, err := open()
			if err != nil {
				return err
			}
			d, err := digest.Canonical.FromReader(r)
			if err != nil {
				return fmt.Errorf("failed to hash %s: %w", seg, err)
			}
			fr.Digest = d.String()
		}
		forks = append(forks, fr)
		return nil
	}

	// Report forks in traversal order, as the streaming decoder meets them
	for _, seg := range sa.Segments() {
		id, known := seg.Entry()
		var err error
		switch {
		case known && id == types.EntryDataFork:
			err = add(applesingle.ForkData, seg, sa.DataFork)
		case known && id == types.EntryResourceFork:
			err = add(applesingle.ForkResource, seg, sa.ResourceFork)
		case isOther(sa, seg.ID):
			id := seg.ID
			err = add(applesingle.ForkOther, seg, func() (io.Reader, error) { return sa.Entry(id) })
		}
		if err != nil {
			return nil, nil, err
		}
	}

	return sa.Archive, forks, nil
}

func isOther(sa *applesingle.SeekableArchive, id uint32) bool {
	for _, seg := range sa.Entries() {
		if seg.ID == id {
			return true
		}
	}
	return false
}

func newForkReport(kind applesingle.ForkKind, id uint32, size int64) ForkReport {
	return ForkReport{
		Kind:  kind.String(),
		Entry: types.EntryID(id).String(),
		Size:  size,
	}
}

// fillMetadata copies the decoded metadata into the report
func fillMetadata(report *FileReport, a *applesingle.Archive) {
	report.Format = a.Format()

	if name, ok := a.Name(); ok {
		report.Name = displayText(name.Valid(), name.MacRoman(), string(name))
	}
	if comment, ok := a.Comment(); ok {
		report.Comment = displayText(comment.Valid(), comment.MacRoman(), string(comment))
	}

	if fi, ok := a.FinderInfo(); ok {
		fr := &FinderReport{
			FileType: fi.FileType.String(),
			Creator:  fi.Creator.String(),
			Flags:    fi.Flags.Names(),
			Location: fmt.Sprintf("(%d, %d)", fi.Location.V, fi.Location.H),
			Folder:   fi.Folder,
		}
		if x := fi.Extended; x != nil {
			fr.IconID = x.IconID
			fr.PutAway = x.PutAway
		}
		report.FinderInfo = fr
	}

	if mi, ok := a.MacInfo(); ok {
		report.MacInfo = &MacReport{Locked: mi.IsLocked(), Protected: mi.IsProtected()}
	}

	if d, ok := a.Dates(); ok {
		report.Dates = &DatesReport{
			Created:  d.Create.String(),
			Modified: d.Modify.String(),
			Backup:   d.Backup.String(),
			Accessed: d.Access.String(),
		}
	}

	for _, seg := range a.Segments() {
		report.Segments = append(report.Segments, newSegmentReport(seg))
	}
	for _, seg := range a.Replaced() {
		report.Replaced = append(report.Replaced, newSegmentReport(seg))
	}
}

// displayText prefers UTF-8 text as is and falls back to Mac OS Roman
func displayText(valid bool, macRoman, raw string) string {
	if valid {
		return raw
	}
	return macRoman
}

func newSegmentReport(seg types.Segment) SegmentReport {
	return SegmentReport{
		Entry:  types.EntryID(seg.ID).String(),
		ID:     seg.ID,
		Offset: seg.Offset,
		Length: seg.Length,
	}
}
