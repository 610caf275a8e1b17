// Package storage persists reference bundles and exported journal documents
// behind a driver interface with local filesystem and S3 implementations.
package storage

import (
	"context"
	"io"
	"time"
)

// StorageDriver defines how we interact with the object storage
type StorageDriver interface {
	// Save writes the content under key
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Get returns a ReadCloser to stream the object back and its content type
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes the object
	Delete(ctx context.Context, key string) error

	// GenerateURL returns a URL the object can be fetched from
	GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
