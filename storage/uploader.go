// Package storage handles binary object storage for player photos.
package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is the object-store surface the rest of the app depends on.
// A nil uploader is a valid configuration: photo features degrade to no-ops.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error

	// GetPublicURL returns the CDN URL for a stored key, or "" when no public
	// base is configured.
	GetPublicURL(key string) string
}
