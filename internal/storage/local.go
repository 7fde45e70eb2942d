package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFileStorage keeps mashups in a local output directory
type LocalFileStorage struct {
	outputDir string
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(outputDir string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	return &LocalFileStorage{
		outputDir: outputDir,
	}, nil
}

// OutputPath returns the path where the mashup should be stored
// Note: The actual writing is done by the mashup executor
func (s *LocalFileStorage) OutputPath(name string) string {
	return filepath.Join(s.outputDir, name)
}

// Publish checks the file exists and returns its path unchanged
func (s *LocalFileStorage) Publish(ctx context.Context, localPath string) (string, error) {
	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("failed to publish %s: %w", localPath, err)
	}
	return localPath, nil
}

func (s *LocalFileStorage) Dir() string {
	return s.outputDir
}

func (s *LocalFileStorage) Close() error {
	return nil
}
