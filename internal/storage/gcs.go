package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"signalcharts/internal/logger"
)

// GCSClient stores dashboards in a Google Cloud Storage bucket
type GCSClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{
		client: client,
		bucket: bucketName,
		log:    logger.Component("storage"),
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// Store uploads data under the dashboard folder for ts
func (g *GCSClient) Store(ctx context.Context, name string, data []byte, ts time.Time) (string, error) {
	objectPath, err := CleanPath(ObjectPath(name, ts))
	if err != nil {
		return "", err
	}
	g.log.Info("Storing object", logger.Fields{"bucket": g.bucket, "object": objectPath, "bytes": len(data)})

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = ContentType(name)
	writer.CacheControl = "public, max-age=300"
	writer.Metadata = map[string]string{
		"generated-at": ts.Format(time.RFC3339),
		"filename":     name,
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to write object to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS upload: %w", err)
	}
	return objectPath, nil
}

// Get downloads an object
func (g *GCSClient) Get(ctx context.Context, objectPath string) ([]byte, error) {
	cleaned, err := CleanPath(objectPath)
	if err != nil {
		return nil, err
	}
	reader, err := g.client.Bucket(g.bucket).Object(cleaned).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cleaned)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %s: %w", cleaned, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", cleaned, err)
	}
	return data, nil
}

// List lists published dashboards, newest first
func (g *GCSClient) List(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{})

	var paths []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, "/"+IndexFile) {
			paths = append(paths, attrs.Name)
		}
	}
	return newestFirst(paths, limit), nil
}
