package extract

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/fixtures"
	"github.com/deploymenttheory/go-applesingle/pkg/app"
	"github.com/deploymenttheory/go-applesingle/pkg/applesingle"
)

var (
	testData = []byte("the data fork")
	testRsrc = bytes.Repeat([]byte("RSRC"), 1000)
	testIcon = []byte{1, 2, 3, 4}
	// 2001-01-01T00:00:00Z
	testModified = types.Date(366 * 24 * 60 * 60)
)

// createTestContainerData creates a container whose forks precede its real name
func createTestContainerData(name string) []byte {
	entries := []fixtures.Entry{
		{ID: uint32(types.EntryDataFork), Data: testData},
		{ID: uint32(types.EntryResourceFork), Data: testRsrc},
		{ID: uint32(types.EntryIconBW), Data: testIcon},
		{ID: uint32(types.EntryFileDates), Data: fixtures.DatesBytes(types.Dates{Modify: testModified, Access: testModified})},
	}
	if name != "" {
		entries = append(entries, fixtures.Entry{ID: uint32(types.EntryRealName), Data: []byte(name)})
	}
	return fixtures.Layout{Entries: entries, Gap: 8}.Bytes()
}

func setup(t *testing.T, data []byte) (*app.Context, string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "input.as")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	dest := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(dest, 0o755))

	ctx := app.NewContext()
	ctx.Stdout = &bytes.Buffer{}
	ctx.Stderr = &bytes.Buffer{}
	ctx.SetLogLevel("debug")
	return ctx, src, dest
}

// listDir returns the names in dir
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestHandle(t *testing.T) {
	ctx, src, dest := setup(t, createTestContainerData("Caf\x8e"))

	resp, err := Handle(ctx, &Request{Path: src, Dest: dest})
	require.NoError(t, err)

	assert.Equal(t, "Café", resp.Name)
	require.Len(t, resp.Files, 2)
	assert.Equal(t, []string{"Café", "Café.rsrc"}, listDir(t, dest))

	got, err := os.ReadFile(filepath.Join(dest, "Café"))
	require.NoError(t, err)
	assert.Equal(t, testData, got)

	got, err = os.ReadFile(filepath.Join(dest, "Café.rsrc"))
	require.NoError(t, err)
	assert.Equal(t, testRsrc, got)

	assert.Equal(t, int64(len(testRsrc)), resp.Files[1].Size)
	assert.Equal(t, "RESOURCE_FORK", resp.Files[1].Entry)

	info, err := os.Stat(filepath.Join(dest, "Café"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(testModified.Time()), "mtime %v", info.ModTime())

	// Every byte of the container was consumed
	raw, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, int64(len(raw)), resp.BytesRead)
}

func TestHandle_Selection(t *testing.T) {
	tests := []struct {
		name     string
		request  Request
		expected []string
	}{
		{
			name:     "data only",
			request:  Request{Data: true},
			expected: []string{"Notes"},
		},
		{
			name:     "resource only",
			request:  Request{Resource: true},
			expected: []string{"Notes.rsrc"},
		},
		{
			name:     "other entries",
			request:  Request{Other: true},
			expected: []string{"Notes.icon_bw"},
		},
		{
			name:     "everything compressed",
			request:  Request{Data: true, Resource: true, Other: true, Compress: true},
			expected: []string{"Notes.icon_bw.zst", "Notes.rsrc.zst", "Notes.zst"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, src, dest := setup(t, createTestContainerData("Notes"))
			req := tt.request
			req.Path, req.Dest = src, dest

			_, err := Handle(ctx, &req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, listDir(t, dest))
		})
	}
}

func TestHandle_Compressed(t *testing.T) {
	ctx, src, dest := setup(t, createTestContainerData("Notes"))

	resp, err := Handle(ctx, &Request{Path: src, Dest: dest, Resource: true, Compress: true})
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.True(t, resp.Files[0].Compressed)

	compressed, err := os.ReadFile(filepath.Join(dest, "Notes.rsrc.zst"))
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(testRsrc))

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()

	got, err := dec.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, testRsrc, got)
}

func TestHandle_FallbackName(t *testing.T) {
	ctx, src, dest := setup(t, createTestContainerData(""))

	resp, err := Handle(ctx, &Request{Path: src, Dest: dest, Data: true})
	require.NoError(t, err)
	assert.Equal(t, "input", resp.Name)
	assert.Equal(t, []string{"input"}, listDir(t, dest))
}

func TestHandle_ExistingFile(t *testing.T) {
	ctx, src, dest := setup(t, createTestContainerData("Notes"))
	existing := filepath.Join(dest, "Notes")
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0o644))

	_, err := Handle(ctx, &Request{Path: src, Dest: dest, Data: true})
	var appErr *app.CommonError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeIOFailed, appErr.Code)

	got, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep me"), got)
	// No temporary files are left behind
	assert.Equal(t, []string{"Notes"}, listDir(t, dest))

	_, err = Handle(ctx, &Request{Path: src, Dest: dest, Data: true, Overwrite: true})
	require.NoError(t, err)
	got, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, testData, got)
}

func TestHandle_Truncated(t *testing.T) {
	data := createTestContainerData("Notes")
	ctx, src, dest := setup(t, data[:len(data)-2])

	_, err := Handle(ctx, &Request{Path: src, Dest: dest})
	var appErr *app.CommonError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, app.ErrCodeDecodeFailed, appErr.Code)
	assert.ErrorIs(t, err, applesingle.ErrTruncated)
	assert.Empty(t, listDir(t, dest))
}

func TestHandle_Progress(t *testing.T) {
	ctx, src, dest := setup(t, createTestContainerData("Notes"))

	var percents []int
	ctx.SetProgress(func(_ string, percent int) { percents = append(percents, percent) })

	start := time.Now()
	resp, err := Handle(ctx, &Request{Path: src, Dest: dest})
	require.NoError(t, err)
	assert.LessOrEqual(t, resp.ElapsedTime, time.Since(start))

	require.Len(t, percents, 3)
	assert.IsIncreasing(t, percents)
	assert.Equal(t, 100, percents[2])
}

func TestRequestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name    string
		request Request
		wantErr bool
	}{
		{name: "valid", request: Request{Path: "x.as", Dest: dir}},
		{name: "missing path", request: Request{Dest: dir}, wantErr: true},
		{name: "missing dest", request: Request{Path: "x.as"}, wantErr: true},
		{name: "dest does not exist", request: Request{Path: "x.as", Dest: filepath.Join(dir, "nope")}, wantErr: true},
		{name: "dest is a file", request: Request{Path: "x.as", Dest: file}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Read Me", expected: "Read Me"},
		{input: "A/B", expected: "A:B"},
		{input: "tab\there", expected: "tab_here"},
		{input: "  padded  ", expected: "padded"},
		{input: "..", expected: ""},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "x", OutputName("x", applesingle.Fork{Kind: applesingle.ForkData, ID: 1}, false))
	assert.Equal(t, "x.rsrc.zst", OutputName("x", applesingle.Fork{Kind: applesingle.ForkResource, ID: 2}, true))
	assert.Equal(t, "x.unknown_7f", OutputName("x", applesingle.Fork{Kind: applesingle.ForkOther, ID: 0x7F}, false))
}
