package dashboard

import (
	"context"
	"fmt"
	"time"

	"signalcharts/internal/charts"
	"signalcharts/internal/logger"
	"signalcharts/internal/storage"
)

// Storer is the part of storage.Client publishing needs.
type Storer interface {
	Store(ctx context.Context, name string, data []byte, ts time.Time) (string, error)
}

// PublishResult describes a stored dashboard page.
type PublishResult struct {
	Path        string    `json:"path"`
	Panels      int       `json:"panels"`
	Failed      int       `json:"failed"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publish builds the dashboard with engine and stores the page as
// storage.IndexFile in the folder of its generation time.
func Publish(ctx context.Context, b *Builder, engine charts.Engine, store Storer) (*PublishResult, error) {
	page, err := b.Build(ctx, engine)
	if err != nil {
		return nil, err
	}
	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	ts := page.GeneratedAt.UTC()
	path, err := store.Store(ctx, storage.IndexFile, html, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to store dashboard: %w", err)
	}
	b.log.Info("Dashboard published", logger.Fields{"path": path, "failed": page.Failed()})

	return &PublishResult{
		Path:        path,
		Panels:      len(page.Panels),
		Failed:      page.Failed(),
		GeneratedAt: ts,
	}, nil
}
