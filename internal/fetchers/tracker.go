package fetchers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"signalcharts/internal/models"
)

// Tracker API endpoints
const (
	SignalsPath = "/api/signals"
	WinratePath = "/api/winrate"
	PairsPath   = "/api/pairs"
)

// JSONGetter issues a GET and decodes the JSON body into out. *Client and
// mocks.MockService implement it.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, out any) error
}

// Tracker reads the signal tracker's statistics endpoints.
type Tracker struct {
	client  JSONGetter
	baseURL string
}

// NewTracker creates a tracker API reader rooted at baseURL.
func NewTracker(client JSONGetter, baseURL string) *Tracker {
	return &Tracker{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Client returns the underlying JSON client.
func (t *Tracker) Client() JSONGetter {
	return t.client
}

// URL returns the absolute URL of an endpoint path.
func (t *Tracker) URL(path string) string {
	return t.baseURL + "/" + strings.TrimLeft(path, "/")
}

// WinrateURL returns the winrate endpoint for a window of days.
func (t *Tracker) WinrateURL(days int) string {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	return t.URL(WinratePath) + "?" + q.Encode()
}

// Signals fetches the most recent signals.
func (t *Tracker) Signals(ctx context.Context) ([]models.Signal, error) {
	var signals []models.Signal
	if err := t.client.GetJSON(ctx, t.URL(SignalsPath), &signals); err != nil {
		return nil, fmt.Errorf("failed to fetch signals: %w", err)
	}
	return signals, nil
}

// Pairs fetches per-pair performance.
func (t *Tracker) Pairs(ctx context.Context) (models.PairPerformance, error) {
	var pairs models.PairPerformance
	if err := t.client.GetJSON(ctx, t.URL(PairsPath), &pairs); err != nil {
		return nil, fmt.Errorf("failed to fetch pair performance: %w", err)
	}
	return pairs, nil
}

// Winrate fetches overall statistics for the last days. A payload carrying
// an error message is returned as an error.
func (t *Tracker) Winrate(ctx context.Context, days int) (*models.WinrateStats, error) {
	var stats models.WinrateStats
	if err := t.client.GetJSON(ctx, t.WinrateURL(days), &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch winrate: %w", err)
	}
	if stats.Error != "" {
		return nil, fmt.Errorf("tracker reported winrate error: %s", stats.Error)
	}
	return &stats, nil
}
