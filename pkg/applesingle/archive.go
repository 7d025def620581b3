package applesingle

import (
	"fmt"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
)

// Archive is the metadata decoded from an AppleSingle container.
// Fork contents are not part of it: Parse streams them to a Handler and
// ParseSeekable reads them on demand.
type Archive struct {
	format     string
	finderInfo *types.FinderInfo
	macInfo    *types.MacInfo
	dates      *types.Dates
	name       types.Filename
	hasName    bool
	comment    types.Comment
	hasComment bool
	segments   []types.Segment
	replaced   []types.Segment
}

// Format returns the container format, always "AppleSingle" for a decoded archive.
func (a *Archive) Format() string {
	return a.format
}

// FinderInfo returns the Finder info entry, if present.
func (a *Archive) FinderInfo() (types.FinderInfo, bool) {
	if a.finderInfo == nil {
		return types.FinderInfo{}, false
	}
	return *a.finderInfo, true
}

// MacInfo returns the Macintosh file info entry, if present.
func (a *Archive) MacInfo() (types.MacInfo, bool) {
	if a.macInfo == nil {
		return 0, false
	}
	return *a.macInfo, true
}

// Dates returns the file dates entry, if present.
func (a *Archive) Dates() (types.Dates, bool) {
	if a.dates == nil {
		return types.Dates{}, false
	}
	return *a.dates, true
}

// Name returns the real name entry, if present.
func (a *Archive) Name() (types.Filename, bool) {
	return a.name, a.hasName
}

// Comment returns the comment entry, if present.
func (a *Archive) Comment() (types.Comment, bool) {
	return a.comment, a.hasComment
}

// Segments returns the descriptor table in traversal order.
func (a *Archive) Segments() []types.Segment {
	return append([]types.Segment(nil), a.segments...)
}

// Replaced returns descriptors dropped because a later descriptor had the same id.
func (a *Archive) Replaced() []types.Segment {
	return append([]types.Segment(nil), a.replaced...)
}

// Builder accumulates decoded fields. Every setter overwrites the previous value.
type Builder struct {
	a         Archive
	hasFormat bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Format sets the mandatory format tag.
func (b *Builder) Format(format string) *Builder {
	b.a.format = format
	b.hasFormat = true
	return b
}

// FinderInfo sets the Finder info.
func (b *Builder) FinderInfo(fi types.FinderInfo) *Builder {
	b.a.finderInfo = &fi
	return b
}

// MacInfo sets the Macintosh file info.
func (b *Builder) MacInfo(m types.MacInfo) *Builder {
	b.a.macInfo = &m
	return b
}

// Dates sets the file dates.
func (b *Builder) Dates(d types.Dates) *Builder {
	b.a.dates = &d
	return b
}

// Name sets the real name.
func (b *Builder) Name(name types.Filename) *Builder {
	b.a.name = append(types.Filename(nil), name...)
	b.a.hasName = true
	return b
}

// Comment sets the comment.
func (b *Builder) Comment(c types.Comment) *Builder {
	b.a.comment = append(types.Comment(nil), c...)
	b.a.hasComment = true
	return b
}

// Segments sets the traversal-ordered descriptor table and the replaced descriptors.
func (b *Builder) Segments(segs, replaced []types.Segment) *Builder {
	b.a.segments = append([]types.Segment(nil), segs...)
	b.a.replaced = append([]types.Segment(nil), replaced...)
	return b
}

// Build returns the archive, or ErrMissingField if no format was set.
func (b *Builder) Build() (*Archive, error) {
	if !b.hasFormat {
		return nil, fmt.Errorf("%w: format", ErrMissingField)
	}
	a := b.a
	return &a, nil
}
