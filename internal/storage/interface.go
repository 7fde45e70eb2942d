package storage

import (
	"context"
	"fmt"

	"github.com/mixmateai/mixmate/config"
)

// Storage decides where mashups are rendered and publishes finished files.
type Storage interface {
	// OutputPath returns the local path a mashup named name is rendered to.
	OutputPath(name string) string

	// Publish makes a rendered file available and returns its location.
	Publish(ctx context.Context, localPath string) (string, error)

	// Dir is the local directory rendered files live in.
	Dir() string

	Close() error
}

// New creates the storage backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalFileStorage(cfg.OutputDir)
	case "gcs":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("gcs storage requires a bucket")
		}
		return NewGCSStorage(ctx, cfg.Bucket, cfg.ObjectPrefix, cfg.OutputDir, cfg.CredentialsFile, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
