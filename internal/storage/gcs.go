package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const uploadTimeout = 5 * time.Minute

// GCSStorage renders mashups into a local staging directory and uploads
// finished files to Google Cloud Storage
type GCSStorage struct {
	client        *storage.Client
	bucket        string
	stagingDir    string
	objectPrefix  string
	publicBaseURL string
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, stagingDir, credentialsFile, publicBaseURL string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	// Uses application default credentials when no file is given
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	if err := os.MkdirAll(stagingDir, os.ModePerm); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	return &GCSStorage{
		client:        client,
		bucket:        bucketName,
		stagingDir:    stagingDir,
		objectPrefix:  strings.Trim(objectPrefix, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// OutputPath returns the local staging path for a mashup
func (s *GCSStorage) OutputPath(name string) string {
	return filepath.Join(s.stagingDir, name)
}

func (s *GCSStorage) Dir() string {
	return s.stagingDir
}

// Publish uploads the local file to the bucket and returns the object
// location. The staged file is kept so it can still be streamed.
func (s *GCSStorage) Publish(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer f.Close()

	objectName := s.objectName(filepath.Base(localPath))

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = "audio/mpeg"
	if _, err = io.Copy(wc, f); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	location := s.location(objectName)
	slog.Info("Uploaded mashup", "bucket", s.bucket, "object", objectName, "location", location)
	return location, nil
}

func (s *GCSStorage) objectName(name string) string {
	if s.objectPrefix != "" {
		return s.objectPrefix + "/" + name
	}
	return name
}

// location returns the public URL if available, or just the object name
func (s *GCSStorage) location(objectName string) string {
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, objectName)
	}
	return objectName
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
