package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New("object not found")

// IndexFile is the page every published dashboard folder contains.
const IndexFile = "index.html"

// Client stores published dashboards
type Client interface {
	// Store writes data as name inside the dashboard folder for ts and
	// returns the object path.
	Store(ctx context.Context, name string, data []byte, ts time.Time) (string, error)

	// Get reads an object by the path Store returned.
	Get(ctx context.Context, path string) ([]byte, error)

	// List returns the index pages of published dashboards, newest first.
	// A non-positive limit returns all of them.
	List(ctx context.Context, limit int) ([]string, error)

	// Close releases the client
	Close() error
}
