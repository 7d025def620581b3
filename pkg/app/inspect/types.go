package inspect

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Decode modes
const (
	ModeStream = "stream"
	ModeSeek   = "seek"
)

// Request represents an inspection request
type Request struct {
	// Paths are file names or doublestar patterns such as "archive/**/*.as"
	Paths []string

	// Mode selects the decoder: stream or seek
	Mode string

	// Digest computes a sha256 digest for every fork
	Digest bool

	// Concurrency bounds the number of files decoded at once
	Concurrency int
}

// Response represents inspection results
type Response struct {
	Files       []FileReport  `json:"files" yaml:"files" plist:"files"`
	TotalFiles  int           `json:"total_files" yaml:"total_files" plist:"total_files"`
	Failed      int           `json:"failed" yaml:"failed" plist:"failed"`
	ElapsedTime time.Duration `json:"elapsed_time" yaml:"elapsed_time" plist:"elapsed_time"`
}

// FileReport describes one decoded container
type FileReport struct {
	Path   string `json:"path" yaml:"path" plist:"path"`
	Size   int64  `json:"size" yaml:"size" plist:"size"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" plist:"format,omitempty"`

	Name       string        `json:"name,omitempty" yaml:"name,omitempty" plist:"name,omitempty"`
	Comment    string        `json:"comment,omitempty" yaml:"comment,omitempty" plist:"comment,omitempty"`
	FinderInfo *FinderReport `json:"finder_info,omitempty" yaml:"finder_info,omitempty" plist:"finder_info,omitempty"`
	MacInfo    *MacReport    `json:"mac_info,omitempty" yaml:"mac_info,omitempty" plist:"mac_info,omitempty"`
	Dates      *DatesReport  `json:"dates,omitempty" yaml:"dates,omitempty" plist:"dates,omitempty"`

	Segments []SegmentReport `json:"segments,omitempty" yaml:"segments,omitempty" plist:"segments,omitempty"`
	Replaced []SegmentReport `json:"replaced,omitempty" yaml:"replaced,omitempty" plist:"replaced,omitempty"`
	Forks    []ForkReport    `json:"forks,omitempty" yaml:"forks,omitempty" plist:"forks,omitempty"`

	Error string `json:"error,omitempty" yaml:"error,omitempty" plist:"error,omitempty"`
}

// FinderReport is the printable form of the Finder info entry
type FinderReport struct {
	FileType string   `json:"file_type" yaml:"file_type" plist:"file_type"`
	Creator  string   `json:"creator" yaml:"creator" plist:"creator"`
	Flags    []string `json:"flags,omitempty" yaml:"flags,omitempty" plist:"flags,omitempty"`
	Location string   `json:"location" yaml:"location" plist:"location"`
	Folder   uint16   `json:"folder" yaml:"folder" plist:"folder"`
	IconID   int16    `json:"icon_id,omitempty" yaml:"icon_id,omitempty" plist:"icon_id,omitempty"`
	PutAway  int32    `json:"put_away,omitempty" yaml:"put_away,omitempty" plist:"put_away,omitempty"`
}

// MacReport is the printable form of the Macintosh file info entry
type MacReport struct {
	Locked    bool `json:"locked" yaml:"locked" plist:"locked"`
	Protected bool `json:"protected" yaml:"protected" plist:"protected"`
}

// DatesReport holds the file dates as RFC 3339 strings
type DatesReport struct {
	Created  string `json:"created" yaml:"created" plist:"created"`
	Modified string `json:"modified" yaml:"modified" plist:"modified"`
	Backup   string `json:"backup" yaml:"backup" plist:"backup"`
	Accessed string `json:"accessed" yaml:"accessed" plist:"accessed"`
}

// SegmentReport is one descriptor of the table of contents
type SegmentReport struct {
	Entry  string `json:"entry" yaml:"entry" plist:"entry"`
	ID     uint32 `json:"id" yaml:"id" plist:"id"`
	Offset uint32 `json:"offset" yaml:"offset" plist:"offset"`
	Length uint32 `json:"length" yaml:"length" plist:"length"`
}

// ForkReport describes one fork-like payload
type ForkReport struct {
	Kind   string `json:"kind" yaml:"kind" plist:"kind"`
	Entry  string `json:"entry" yaml:"entry" plist:"entry"`
	Size   int64  `json:"size" yaml:"size" plist:"size"`
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty" plist:"digest,omitempty"`
}

// FormatSize returns a human-readable size string
func (f *ForkReport) FormatSize() string {
	return humanize.IBytes(uint64(f.Size))
}

// TotalForkSize returns the combined size of all forks in the report
func (r *FileReport) TotalForkSize() int64 {
	var total int64
	for _, f := range r.Forks {
		total += f.Size
	}
	return total
}
