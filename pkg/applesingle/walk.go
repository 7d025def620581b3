package applesingle

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/deploymenttheory/go-applesingle/applesingle/types"
	"github.com/deploymenttheory/go-applesingle/internal/interfaces"
	"github.com/deploymenttheory/go-applesingle/internal/parsers/header"
	"github.com/deploymenttheory/go-applesingle/internal/parsers/segments"
)

// forkFunc receives a fork-like payload. Whatever it leaves unread is
// finished by the source's Release.
type forkFunc func(f Fork, r io.Reader) error

// decoder is the traversal shared by the streaming and seekable engines.
// Only the SegmentSource differs between them.
type decoder struct {
	src    interfaces.SegmentSource
	logger *slog.Logger
	fork   forkFunc
}

// decode reads the header from hdr, then visits every segment in offset order.
// hdr must be positioned at the start of the container.
func (d *decoder) decode(hdr io.Reader) (*Archive, interfaces.SegmentTable, error) {
	table, err := header.ReadHeader(hdr, d.logger)
	if err != nil {
		return nil, nil, err
	}

	order := table.ByOffset()
	d.logger.Debug("read segment table",
		slog.Int("declared", int(table.Count())),
		slog.Int("distinct", table.Len()))

	b := NewBuilder().
		Format(types.FormatName).
		Segments(order, table.Replaced())

	for _, seg := range order {
		if err := d.visit(seg, b); err != nil {
			return nil, nil, err
		}
	}

	a, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return a, table, nil
}

// visit opens, decodes and releases one segment
func (d *decoder) visit(seg types.Segment, b *Builder) error {
	d.logger.Debug("decoding segment",
		slog.Any("entry", types.EntryID(seg.ID)),
		slog.Uint64("offset", uint64(seg.Offset)),
		slog.Uint64("length", uint64(seg.Length)))

	r, err := d.src.Open(seg)
	if err != nil {
		return err
	}

	m, err := segments.Decode(seg, r)
	if err != nil {
		return err
	}

	switch m := m.(type) {
	case *segments.RealName:
		b.Name(m.Name)
	case *segments.Comment:
		b.Comment(m.Comment)
	case *segments.FileDates:
		b.Dates(m.Dates)
	case *segments.FinderInfo:
		b.FinderInfo(m.Info)
	case *segments.MacInfo:
		b.MacInfo(m.Info)
	case *segments.DataFork:
		err = d.fork(forkOf(ForkData, seg), m.R)
	case *segments.ResourceFork:
		err = d.fork(forkOf(ForkResource, seg), m.R)
	case *segments.Other:
		err = d.fork(forkOf(ForkOther, seg), m.R)
	}
	if err != nil {
		return err
	}

	if err := d.src.Release(r); err != nil {
		return fmt.Errorf("failed to finish %s: %w", seg, err)
	}
	return nil
}

func forkOf(kind ForkKind, seg types.Segment) Fork {
	return Fork{Kind: kind, ID: seg.ID, Offset: seg.Offset, Length: seg.Length}
}
