package storage

import (
	"context"
	"fmt"

	"signalcharts/internal/config"
)

// New creates the storage client selected by cfg.StorageMode
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.StorageMode {
	case config.StorageLocal:
		client, err := NewLocalClient(cfg.LocalDashboardsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return client, nil

	case config.StorageGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS bucket is required for %s storage", config.StorageGCS)
		}
		client, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.StorageMode)
	}
}
