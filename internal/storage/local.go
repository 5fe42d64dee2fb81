package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// LocalClient stores dashboards on the local file system
type LocalClient struct {
	baseDir string
}

// NewLocalClient creates a local storage client rooted at baseDir
func NewLocalClient(baseDir string) (*LocalClient, error) {
	if baseDir == "" {
		baseDir = "dashboards"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalClient{baseDir: baseDir}, nil
}

// BaseDir returns the root directory.
func (l *LocalClient) BaseDir() string {
	return l.baseDir
}

// Close is a no-op for local storage
func (l *LocalClient) Close() error {
	return nil
}

// Store writes data under the dashboard folder for ts
func (l *LocalClient) Store(ctx context.Context, name string, data []byte, ts time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	objectPath, err := CleanPath(ObjectPath(name, ts))
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(l.baseDir, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", objectPath, err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return objectPath, nil
}

// Get reads a stored object
func (l *LocalClient) Get(ctx context.Context, objectPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned, err := CleanPath(objectPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.baseDir, filepath.FromSlash(cleaned)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cleaned)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", cleaned, err)
	}
	return data, nil
}

// List lists published dashboards, newest first
func (l *LocalClient) List(ctx context.Context, limit int) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(l.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || d.Name() != IndexFile {
			return nil
		}
		rel, relErr := filepath.Rel(l.baseDir, p)
		if relErr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk dashboards directory: %w", err)
	}
	return newestFirst(paths, limit), nil
}
