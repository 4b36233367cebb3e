package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored object.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores binary assets under caller-chosen keys. The only
// current use is tournament logos; services hold a nil uploader when object
// storage is not configured.
type FileUploader interface {
	// Upload streams the reader to the given key, replacing any object
	// already stored under it.
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetPublicURL returns the public URL the key is served from.
	GetPublicURL(key string) string
}
