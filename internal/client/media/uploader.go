// Package media uploads question images directly to the external media host
// and returns the hosted URL per file. Two implementations exist: the
// default signed ImageKit-style upload (auth parameters fetched from the
// backend) and a Cloudinary-backed one selected by configuration.
package media

import (
	"context"
	"io"
)

// Uploader sends one file to the media host and returns its hosted URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, fileName string) (string, error)
}
