package verify

import (
	"fmt"

	"github.com/deploymenttheory/go-applesingle/pkg/app"
)

// Request represents a verification request
type Request struct {
	// Paths are file names or doublestar patterns
	Paths []string
}

// Response represents verification results
type Response struct {
	Results []Result `json:"results" yaml:"results" plist:"results"`
	Passed  int      `json:"passed" yaml:"passed" plist:"passed"`
	Failed  int      `json:"failed" yaml:"failed" plist:"failed"`
}

// Result is the outcome for one container
type Result struct {
	Path       string        `json:"path" yaml:"path" plist:"path"`
	OK         bool          `json:"ok" yaml:"ok" plist:"ok"`
	Forks      []Fingerprint `json:"forks,omitempty" yaml:"forks,omitempty" plist:"forks,omitempty"`
	Mismatches []string      `json:"mismatches,omitempty" yaml:"mismatches,omitempty" plist:"mismatches,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty" plist:"error,omitempty"`
}

// Fingerprint holds the xxhash of one fork as seen by each decoder
type Fingerprint struct {
	Entry  string `json:"entry" yaml:"entry" plist:"entry"`
	Size   int64  `json:"size" yaml:"size" plist:"size"`
	Stream string `json:"stream" yaml:"stream" plist:"stream"`
	Seek   string `json:"seek" yaml:"seek" plist:"seek"`
}

// Err returns a VERIFY_MISMATCH error if any container failed
func (r *Response) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return app.NewError(app.ErrCodeVerifyMismatch, fmt.Sprintf("%d of %d containers failed verification", r.Failed, r.Failed+r.Passed), nil)
}

// Validate validates a verification request
func (r *Request) Validate() error {
	if len(r.Paths) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "at least one path is required", nil)
	}
	return nil
}
