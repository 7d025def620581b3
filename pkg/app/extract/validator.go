package extract

import (
	"os"

	"github.com/deploymenttheory/go-applesingle/pkg/app"
)

// Validate validates an extraction request
func (r *Request) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "container path is required", nil)
	}
	if r.Dest == "" {
		return app.NewError(app.ErrCodeInvalidInput, "destination directory is required", nil)
	}

	info, err := os.Stat(r.Dest)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "destination directory is not accessible", err)
	}
	if !info.IsDir() {
		return app.NewError(app.ErrCodeInvalidInput, "destination is not a directory", nil)
	}

	return nil
}
