package storage

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("file storage is not configured")

// Noop is the uploader used when no Cloudinary credentials are configured.
// It always fails, which the intake flow absorbs by keeping only the
// original filename.
type Noop struct{}

func (Noop) Upload(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	return nil, ErrNotConfigured
}
