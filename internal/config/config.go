package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage modes
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Config holds all configuration for the signal chart service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8080"`

	// Tracker API the dashboard reads its statistics from
	TrackerAPIURL   string        `env:"TRACKER_API_URL,default=http://localhost:5000"`
	WinrateDays     int           `env:"WINRATE_DAYS,default=30"`
	ComparisonPairs int           `env:"COMPARISON_PAIRS,default=3"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT,default=30s"`

	// Serve tracker responses from JSON files instead of the live API
	MockupMode bool   `env:"MOCKUP_MODE,default=false"`
	MocksDir   string `env:"MOCKS_DIR"`

	// Rendering
	TimeZone         string `env:"TIME_ZONE,default=Local"`
	EChartsScriptURL string `env:"ECHARTS_SCRIPT_URL,default=https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"`
	ChartHeight      string `env:"CHART_HEIGHT,default=360px"`

	// Published dashboards
	StorageMode        string `env:"STORAGE_MODE,default=local"`
	LocalDashboardsDir string `env:"LOCAL_DASHBOARDS_DIR,default=./dashboards"`
	GCSBucket          string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express in tags.
func (c *Config) Validate() error {
	switch c.StorageMode {
	case StorageLocal:
	case StorageGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when STORAGE_MODE=%s", StorageGCS)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_MODE %q", c.StorageMode)
	}
	if c.ComparisonPairs < 1 {
		return fmt.Errorf("COMPARISON_PAIRS must be positive, got %d", c.ComparisonPairs)
	}
	if c.WinrateDays < 1 {
		return fmt.Errorf("WINRATE_DAYS must be positive, got %d", c.WinrateDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TIME_ZONE. "Local" maps to the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
