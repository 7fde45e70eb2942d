package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	// Default TTL for rendered mashups
	DefaultFileTTL = 24 * time.Hour

	// Cleanup interval for old files
	CleanupInterval = 2 * time.Hour
)

// StartCleanupWorker removes files older than ttl from dir every interval
// until ctx is done.
func StartCleanupWorker(ctx context.Context, dir string, ttl, interval time.Duration) {
	if ttl <= 0 {
		ttl = DefaultFileTTL
	}
	if interval <= 0 {
		interval = CleanupInterval
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CleanupOldFiles(dir, ttl)
			}
		}
	}()
	slog.Info("File cleanup worker started", "dir", dir, "ttl", ttl, "interval", interval)
}

// CleanupOldFiles removes regular files in dir last modified before now-ttl
// and returns how many were removed.
func CleanupOldFiles(dir string, ttl time.Duration) int {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0
	}

	cutoffTime := time.Now().Add(-ttl)
	slog.Debug("Starting cleanup of old files", "dir", dir, "cutoff", cutoffTime)

	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Error("Failed to read output directory", "dir", dir, "error", err)
		return 0
	}

	cleaned := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				slog.Error("Failed to remove old file", "path", path, "error", err)
			} else {
				slog.Debug("Cleaned up old file", "path", path, "age", time.Since(info.ModTime()))
				cleaned++
			}
		}
	}

	if cleaned > 0 {
		slog.Info("Cleanup completed", "files_cleaned", cleaned)
	}
	return cleaned
}
