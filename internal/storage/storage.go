package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"

	cfg "github.com/davidtseymour/personal-productivity-system/internal/config"
)

var ErrNotFound = errors.New("object not found")

// Storage defines the interface for document storage operations
type Storage interface {
	// Save stores the content at the given path, replacing any previous version
	Save(ctx context.Context, path string, content io.Reader) error

	// Load returns the content stored at path or ErrNotFound
	Load(ctx context.Context, path string) ([]byte, error)

	// Delete removes the content at path
	Delete(ctx context.Context, path string) error
}

// New returns S3 storage when a bucket is configured and local storage
// under the archive directory otherwise.
func New(ctx context.Context, c *cfg.Config) (Storage, error) {
	if c.UseS3() {
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(ctx, S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	}

	slog.Info("initializing local storage", "dir", c.ArchiveDir)
	return NewLocalStorage(c.ArchiveDir)
}
