package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"signalcharts/internal/metrics"

	"github.com/go-resty/resty/v2"
)

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

// Client fetches JSON documents. Requests are never retried.
type Client struct {
	client *resty.Client
}

// NewClient creates a client with the given request timeout. A non-positive
// timeout defaults to 30 seconds.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// GetJSON issues a GET for url and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		metrics.FetchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	metrics.FetchDuration.WithLabelValues(strconv.Itoa(resp.StatusCode())).Observe(time.Since(start).Seconds())

	if !resp.IsSuccess() {
		return &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", url, err)
	}
	return nil
}
