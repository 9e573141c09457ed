package storage

import "context"

type UploadResult struct {
	FileName string
	URL      string
	PublicID string
}

// Uploader stores a résumé file and returns where it ended up. Callers never
// fail an intake on an upload error; they fall back to filename-only.
type Uploader interface {
	Upload(ctx context.Context, fileName string, data []byte) (*UploadResult, error)
}
