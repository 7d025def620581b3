package extract

import (
	"time"

	"github.com/deploymenttheory/go-applesingle/pkg/applesingle"
)

// Request represents a fork extraction request
type Request struct {
	// Path is the AppleSingle container to read
	Path string

	// Dest is the directory receiving the extracted files
	Dest string

	// Fork selection. When none is set the data and resource forks are extracted.
	Data     bool
	Resource bool
	Other    bool

	// Compress wraps every output in zstd and appends ".zst" to its name
	Compress bool

	// Overwrite replaces existing files in Dest
	Overwrite bool
}

// Response represents extraction results
type Response struct {
	Source      string          `json:"source" yaml:"source" plist:"source"`
	Name        string          `json:"name" yaml:"name" plist:"name"`
	Files       []ExtractedFile `json:"files" yaml:"files" plist:"files"`
	BytesRead   int64           `json:"bytes_read" yaml:"bytes_read" plist:"bytes_read"`
	ElapsedTime time.Duration   `json:"elapsed_time" yaml:"elapsed_time" plist:"elapsed_time"`
}

// ExtractedFile describes one written fork
type ExtractedFile struct {
	Kind       string `json:"kind" yaml:"kind" plist:"kind"`
	Entry      string `json:"entry" yaml:"entry" plist:"entry"`
	Path       string `json:"path" yaml:"path" plist:"path"`
	Size       int64  `json:"size" yaml:"size" plist:"size"`
	Compressed bool   `json:"compressed" yaml:"compressed" plist:"compressed"`
}

// wants reports whether the request selects forks of the given kind
func (r *Request) wants(kind applesingle.ForkKind) bool {
	if !r.Data && !r.Resource && !r.Other {
		return kind == applesingle.ForkData || kind == applesingle.ForkResource
	}
	switch kind {
	case applesingle.ForkData:
		return r.Data
	case applesingle.ForkResource:
		return r.Resource
	default:
		return r.Other
	}
}
