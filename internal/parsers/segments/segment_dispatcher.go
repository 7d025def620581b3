package segments

import (
	"errors"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/parsers/dates"
	"github.com/deploymenttheory/go-applesingle/internal/parsers/finder"
)

// Member is one decoded entry. The concrete types are *DataFork,
// *ResourceFork, *RealName, *Comment, *FileDates, *FinderInfo, *MacInfo and *Other.
type Member interface {
	// Segment returns the descriptor the member was decoded from
	Segment() types.Segment
	member()
}

type base struct {
	seg types.Segment
}

func (b base) Segment() types.Segment { return b.seg }
func (base) member() {}

// Payload is the unread body of a fork-like entry. Reading it consumes the
// source; nothing is buffered.
type Payload struct {
	base
	R io.Reader
}

// DataFork is the data fork entry
type DataFork struct{ Payload }

// ResourceFork is the resource fork entry
type ResourceFork struct{ Payload }

// Other is an entry whose contents are not interpreted. Known ids without a
// decoder (icons, ProDOS, MS-DOS and AFP entries) land here too.
type Other struct{ Payload }

// RealName is the real name entry
type RealName struct {
	base
	Name types.Filename
}

// Comment is the comment entry
type Comment struct {
	base
	Comment types.Comment
}

// FileDates is the file dates entry
type FileDates struct {
	base
	Dates types.Dates
}

// FinderInfo is the Finder info entry
type FinderInfo struct {
	base
	Info types.FinderInfo
}

// MacInfo is the Macintosh file info entry
type MacInfo struct {
	base
	Info types.MacInfo
}

// Decode classifies seg by entry id and decodes it from r, which must yield
// exactly seg.Length bytes. Metadata entries consume only the bytes their
// layout needs; fork-like entries consume nothing and hand r back as their payload.
func Decode(seg types.Segment, r io.Reader) (Member, error) {
	b := base{seg: seg}

	id, known := seg.Entry()
	if !known {
		return &Other{Payload{base: b, R: r}}, nil
	}

	switch id {
	case types.EntryDataFork:
		return &DataFork{Payload{base: b, R: r}}, nil

	case types.EntryResourceFork:
		return &ResourceFork{Payload{base: b, R: r}}, nil

	case types.EntryRealName:
		data, err := readAll(r, seg)
		if err != nil {
			return nil, err
		}
		return &RealName{base: b, Name: types.Filename(data)}, nil

	case types.EntryComment:
		data, err := readAll(r, seg)
		if err != nil {
			return nil, err
		}
		return &Comment{base: b, Comment: types.Comment(data)}, nil

	case types.EntryFinderInfo:
		size := types.FinderInfoSize
		if seg.Length >= types.FinderInfoSize+types.ExtendedFinderInfoSize {
			size += types.ExtendedFinderInfoSize
		}
		data, err := readFixed(r, seg, size)
		if err != nil {
			return nil, err
		}
		info, err := finder.ParseFinderInfo(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", seg, err)
		}
		return &FinderInfo{base: b, Info: info}, nil

	case types.EntryFileDates:
		data, err := readFixed(r, seg, types.FileDatesSize)
		if err != nil {
			return nil, err
		}
		d, err := dates.ParseFileDates(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", seg, err)
		}
		return &FileDates{base: b, Dates: d}, nil

	case types.EntryMacFileInfo:
		data, err := readFixed(r, seg, types.MacInfoSize)
		if err != nil {
			return nil, err
		}
		info, err := finder.ParseMacInfo(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", seg, err)
		}
		return &MacInfo{base: b, Info: info}, nil

	default:
		return &Other{Payload{base: b, R: r}}, nil
	}
}

// readAll reads the whole segment. The buffer grows as bytes arrive, so a
// bogus length on a short input fails without a huge allocation.
func readAll(r io.Reader, seg types.Segment) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", seg, err)
	}
	if uint64(len(data)) != uint64(seg.Length) {
		return nil, fmt.Errorf("%w: %s has %d of %d bytes", types.ErrTruncated, seg, len(data), seg.Length)
	}
	return data, nil
}

// readFixed reads the first size bytes of a fixed-layout segment
func readFixed(r io.Reader, seg types.Segment, size int) ([]byte, error) {
	if uint64(seg.Length) < uint64(size) {
		return nil, fmt.Errorf("%w: %s is %d bytes, need %d", types.ErrMalformed, seg, seg.Length, size)
	}

	data := make([]byte, size)
	n, err := io.ReadFull(r, data)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: %s has %d of %d bytes", types.ErrTruncated, seg, n, size)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", seg, err)
	}
	return data, nil
}
