package applesingle

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testFinderInfo = types.FinderInfo{
		FileType: types.FourCC{'T', 'E', 'X', 'T'},
		Creator:  types.FourCC{'t', 't', 'x', 't'},
		Flags:    types.FinderFlagHasBeenInited | types.FinderFlagIsAlias,
		Location: types.Point{V: 10, H: 20},
		Extended: &types.ExtendedFinderInfo{IconID: 5, PutAway: 2},
	}
	testDates = types.Dates{Create: -86400, Modify: 0, Backup: 86400, Access: 1000}
)

// createTestContainer builds a container with every decoded entry type, both
// forks and one uninterpreted entry
func createTestContainer() fixtures.Layout {
	return fixtures.Layout{
		Entries: []fixtures.Entry{
			{ID: uint32(types.EntryRealName), Data: []byte("Caf\x8e Notes")},
			{ID: uint32(types.EntryComment), Data: []byte("a comment")},
			{ID: uint32(types.EntryFileDates), Data: fixtures.DatesBytes(testDates)},
			{ID: uint32(types.EntryFinderInfo), Data: fixtures.FinderInfoBytes(testFinderInfo)},
			{ID: uint32(types.EntryMacFileInfo), Data: fixtures.MacInfoBytes(types.MacInfoProtected)},
			{ID: uint32(types.EntryIconBW), Data: bytes.Repeat([]byte{0xFF}, 128)},
			{ID: uint32(types.EntryDataFork), Data: []byte("hello, data fork")},
			{ID: uint32(types.EntryResourceFork), Data: bytes.Repeat([]byte("rsrc"), 300)},
		},
		Gap:          3,
		ReverseTable: true,
	}
}

// capture records every payload offered to it
type capture map[ForkKind]map[uint32]*bytes.Buffer

func (c capture) Sink(f Fork) io.Writer {
	if c[f.Kind] == nil {
		c[f.Kind] = map[uint32]*bytes.Buffer{}
	}
	buf := &bytes.Buffer{}
	c[f.Kind][f.ID] = buf
	return buf
}

func (c capture) bytes(kind ForkKind, id types.EntryID) []byte {
	if buf, ok := c[kind][uint32(id)]; ok {
		return buf.Bytes()
	}
	return nil
}

// countingReader counts the bytes read through it
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func assertMetadata(t *testing.T, a *Archive) {
	t.Helper()

	assert.Equal(t, "AppleSingle", a.Format())

	name, ok := a.Name()
	require.True(t, ok)
	assert.Equal(t, "Café Notes", name.MacRoman())

	comment, ok := a.Comment()
	require.True(t, ok)
	assert.Equal(t, types.Comment("a comment"), comment)

	dates, ok := a.Dates()
	require.True(t, ok)
	assert.Equal(t, testDates, dates)

	fi, ok := a.FinderInfo()
	require.True(t, ok)
	assert.Equal(t, testFinderInfo, fi)
	assert.True(t, fi.Flags.IsAlias())

	mi, ok := a.MacInfo()
	require.True(t, ok)
	assert.True(t, mi.IsProtected())
	assert.False(t, mi.IsLocked())
}

func TestParse_RoundTrip(t *testing.T) {
	layout := createTestContainer()
	data := layout.Bytes()

	sinks := capture{}
	src := &countingReader{r: bytes.NewReader(data)}

	a, err := Parse(src, sinks)
	require.NoError(t, err)

	assertMetadata(t, a)
	assert.Equal(t, layout.Entries[6].Data, sinks.bytes(ForkData, types.EntryDataFork))
	assert.Equal(t, layout.Entries[7].Data, sinks.bytes(ForkResource, types.EntryResourceFork))
	assert.Equal(t, layout.Entries[5].Data, sinks.bytes(ForkOther, types.EntryIconBW))

	// The last segment ends at the end of the input, and nothing past it is read
	assert.Equal(t, int64(len(data)), src.n)

	assert.Equal(t, layout.Segments(), a.Segments())
	assert.Empty(t, a.Replaced())
}

func TestParse_SinkReceivesExactLength(t *testing.T) {
	layout := fixtures.Layout{Entries: []fixtures.Entry{
		{ID: uint32(types.EntryDataFork), Data: []byte("0123456789")},
		{ID: 0x99, Data: []byte("trailing entry")},
	}}

	var got []Fork
	sinks := capture{}
	h := HandlerFunc(func(f Fork) io.Writer {
		got = append(got, f)
		return sinks.Sink(f)
	})

	_, err := Parse(bytes.NewReader(layout.Bytes()), h)
	require.NoError(t, err)

	segs := layout.Segments()
	require.Len(t, got, 2)
	assert.Equal(t, Fork{Kind: ForkData, ID: 1, Offset: segs[0].Offset, Length: 10}, got[0])
	assert.Equal(t, Fork{Kind: ForkOther, ID: 0x99, Offset: segs[1].Offset, Length: 14}, got[1])
	assert.Equal(t, []byte("0123456789"), sinks.bytes(ForkData, types.EntryDataFork))
	assert.Equal(t, []byte("trailing entry"), sinks.bytes(ForkOther, 0x99))
}

func TestParse_NilHandler(t *testing.T) {
	a, err := Parse(bytes.NewReader(createTestContainer().Bytes()), nil)
	require.NoError(t, err)
	assertMetadata(t, a)
}

func TestParse_OutOfOrder(t *testing.T) {
	headerEnd := uint32(types.HeaderSize + 2*types.DescriptorSize)

	tests := []struct {
		name  string
		table []types.Segment
		body  []byte
	}{
		{
			name: "Overlapping segments",
			table: []types.Segment{
				{ID: uint32(types.EntryDataFork), Offset: headerEnd, Length: 8},
				{ID: uint32(types.EntryResourceFork), Offset: headerEnd + 4, Length: 8},
			},
			body: make([]byte, 12),
		},
		{
			name: "Segment inside the header",
			table: []types.Segment{
				{ID: uint32(types.EntryRealName), Offset: 4, Length: 4},
				{ID: uint32(types.EntryDataFork), Offset: headerEnd, Length: 4},
			},
			body: make([]byte, 4),
		},
		{
			name: "Two segments at the same offset",
			table: []types.Segment{
				{ID: uint32(types.EntryDataFork), Offset: headerEnd, Length: 4},
				{ID: uint32(types.EntryResourceFork), Offset: headerEnd, Length: 4},
			},
			body: make([]byte, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := fixtures.Raw(tt.table, tt.body)

			a, err := Parse(bytes.NewReader(data), nil)
			assert.ErrorIs(t, err, ErrOutOfOrder)
			assert.Nil(t, a)

			// A random-access source has no such restriction
			sa, err := ParseSeekable(bytes.NewReader(data))
			require.NoError(t, err)
			assert.NotNil(t, sa)
		})
	}
}

func TestParse_ZeroLengthSegmentSharesOffset(t *testing.T) {
	headerEnd := uint32(types.HeaderSize + 2*types.DescriptorSize)
	// Ties are visited by ascending id, so the empty name is read first
	table := []types.Segment{
		{ID: uint32(types.EntryComment), Offset: headerEnd, Length: 3},
		{ID: uint32(types.EntryRealName), Offset: headerEnd, Length: 0},
	}

	a, err := Parse(bytes.NewReader(fixtures.Raw(table, []byte("abc"))), nil)
	require.NoError(t, err)

	name, ok := a.Name()
	require.True(t, ok)
	assert.Empty(t, name)
	comment, ok := a.Comment()
	require.True(t, ok)
	assert.Equal(t, types.Comment("abc"), comment)
}

func TestParse_Truncated(t *testing.T) {
	data := createTestContainer().Bytes()

	for cut := 0; cut < len(data); cut++ {
		short := data[:cut]

		a, err := Parse(bytes.NewReader(short), capture{})
		require.ErrorIs(t, err, ErrTruncated, "streaming, cut at %d", cut)
		require.Nil(t, a)

		sa, err := ParseSeekable(bytes.NewReader(short))
		require.ErrorIs(t, err, ErrTruncated, "seekable, cut at %d", cut)
		require.Nil(t, sa)
	}
}

func TestParse_FormatMismatch(t *testing.T) {
	tests := []struct {
		name   string
		layout fixtures.Layout
	}{
		{name: "AppleDouble magic", layout: fixtures.Layout{Magic: 0x00051607}},
		{name: "Version 1", layout: fixtures.Layout{Version: 0x00010000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(tt.layout.Bytes()), nil)
			assert.ErrorIs(t, err, ErrFormatMismatch)

			_, err = ParseSeekable(bytes.NewReader(tt.layout.Bytes()))
			assert.ErrorIs(t, err, ErrFormatMismatch)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	data := fixtures.Build(fixtures.Entry{ID: uint32(types.EntryFileDates), Data: make([]byte, 8)})

	_, err := Parse(bytes.NewReader(data), nil)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseSeekable(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParse_DuplicateIDs(t *testing.T) {
	headerEnd := uint32(types.HeaderSize + 2*types.DescriptorSize)
	first := types.Segment{ID: uint32(types.EntryRealName), Offset: headerEnd, Length: 5}
	second := types.Segment{ID: uint32(types.EntryRealName), Offset: headerEnd + 5, Length: 6}
	data := fixtures.Raw([]types.Segment{first, second}, []byte("firstsecond"))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	a, err := Parse(bytes.NewReader(data), nil, WithLogger(logger))
	require.NoError(t, err)

	name, ok := a.Name()
	require.True(t, ok)
	assert.Equal(t, types.Filename("second"), name)
	assert.Equal(t, []types.Segment{second}, a.Segments())
	assert.Equal(t, []types.Segment{first}, a.Replaced())
	assert.Contains(t, logs.String(), "duplicate entry id")

	sa, err := ParseSeekable(bytes.NewReader(data))
	require.NoError(t, err)
	name, _ = sa.Name()
	assert.Equal(t, types.Filename("second"), name)
}

func TestParse_SinkError(t *testing.T) {
	errSink := errors.New("disk full")
	data := createTestContainer().Bytes()

	h := HandlerFunc(func(f Fork) io.Writer {
		if f.Kind == ForkResource {
			return failingWriter{err: errSink}
		}
		return nil
	})

	a, err := Parse(bytes.NewReader(data), h)
	assert.ErrorIs(t, err, errSink)
	assert.Contains(t, err.Error(), "resource fork")
	assert.Nil(t, a)
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestParse_EmptyContainer(t *testing.T) {
	a, err := Parse(bytes.NewReader(fixtures.Build()), nil)
	require.NoError(t, err)
	assert.Equal(t, "AppleSingle", a.Format())
	assert.Empty(t, a.Segments())

	_, ok := a.Name()
	assert.False(t, ok)
	_, ok = a.FinderInfo()
	assert.False(t, ok)
	_, ok = a.Dates()
	assert.False(t, ok)
	_, ok = a.MacInfo()
	assert.False(t, ok)
	_, ok = a.Comment()
	assert.False(t, ok)
}

func TestParseSeekable_Forks(t *testing.T) {
	layout := createTestContainer()

	sa, err := ParseSeekable(bytes.NewReader(layout.Bytes()))
	require.NoError(t, err)
	assertMetadata(t, sa.Archive)

	assert.True(t, sa.HasDataFork())
	assert.True(t, sa.HasResourceFork())
	assert.Equal(t, int64(16), sa.DataForkSize())
	assert.Equal(t, int64(1200), sa.ResourceForkSize())

	// Forks can be read any number of times and in any order
	for i := 0; i < 2; i++ {
		r, err := sa.ResourceFork()
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, layout.Entries[7].Data, got)

		r, err = sa.DataFork()
		require.NoError(t, err)
		got, err = io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, layout.Entries[6].Data, got)
	}

	others := sa.Entries()
	require.Len(t, others, 1)
	assert.Equal(t, uint32(types.EntryIconBW), others[0].ID)

	r, err := sa.Entry(uint32(types.EntryIconBW))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, layout.Entries[5].Data, got)

	r, err = sa.Entry(uint32(types.EntryRealName))
	require.NoError(t, err)
	got, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("Caf\x8e Notes"), got)
}

func TestParseSeekable_NoForks(t *testing.T) {
	data := fixtures.Build(fixtures.Entry{ID: uint32(types.EntryRealName), Data: []byte("x")})

	sa, err := ParseSeekable(bytes.NewReader(data))
	require.NoError(t, err)

	assert.False(t, sa.HasDataFork())
	assert.False(t, sa.HasResourceFork())
	assert.Zero(t, sa.DataForkSize())

	_, err = sa.DataFork()
	assert.ErrorIs(t, err, ErrNoSuchEntry)
	_, err = sa.ResourceFork()
	assert.ErrorIs(t, err, ErrNoSuchEntry)
	_, err = sa.Entry(0x42)
	assert.ErrorIs(t, err, ErrNoSuchEntry)
	assert.Empty(t, sa.Entries())
}

func TestParseSeekable_SegmentPastEnd(t *testing.T) {
	headerEnd := uint32(types.HeaderSize + types.DescriptorSize)
	table := []types.Segment{{ID: uint32(types.EntryDataFork), Offset: headerEnd, Length: 100}}

	_, err := ParseSeekable(bytes.NewReader(fixtures.Raw(table, make([]byte, 99))))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestEnginesAgree(t *testing.T) {
	layouts := map[string]fixtures.Layout{
		"Full container": createTestContainer(),
		"Forks only": {Entries: []fixtures.Entry{
			{ID: uint32(types.EntryResourceFork), Data: []byte("resource")},
			{ID: uint32(types.EntryDataFork), Data: []byte{}},
		}},
		"Unknown entries": {Entries: []fixtures.Entry{
			{ID: 0x1000, Data: []byte("one")},
			{ID: 0x2000, Data: []byte("two")},
		}, Gap: 17},
	}

	for name, layout := range layouts {
		t.Run(name, func(t *testing.T) {
			data := layout.Bytes()

			sinks := capture{}
			streamed, err := Parse(bytes.NewReader(data), sinks)
			require.NoError(t, err)

			sa, err := ParseSeekable(bytes.NewReader(data))
			require.NoError(t, err)

			assert.Equal(t, streamed, sa.Archive)

			if sa.HasDataFork() {
				r, err := sa.DataFork()
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, sinks.bytes(ForkData, types.EntryDataFork), got)
			}
			if sa.HasResourceFork() {
				r, err := sa.ResourceFork()
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, sinks.bytes(ForkResource, types.EntryResourceFork), got)
			}
			for _, seg := range sa.Entries() {
				r, err := sa.Entry(seg.ID)
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, sinks.bytes(ForkOther, types.EntryID(seg.ID)), got)
			}
		})
	}
}
