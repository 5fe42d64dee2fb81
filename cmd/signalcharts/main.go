// Command signalcharts serves and exports the signal tracker dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"signalcharts/internal/config"
	"signalcharts/internal/dashboard"
	"signalcharts/internal/fetchers"
	"signalcharts/internal/logger"
	"signalcharts/internal/mocks"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "signalcharts",
		Short: "Charts for the crypto signal tracker",
		Long: `signalcharts renders the signal tracker statistics as a dashboard.
It serves the live page, exports PNG and XLSX charts and publishes
rendered dashboards to local disk or Google Cloud Storage.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd(), renderCmd(), exportCmd(), inspectCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration, configures the global logger and creates the
// dashboard builder.
func setup(ctx context.Context) (*config.Config, *dashboard.Builder, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	var source fetchers.JSONGetter = fetchers.NewClient(cfg.FetchTimeout)
	if cfg.MockupMode {
		logger.Info("Mockup mode enabled, serving tracker data from files", logger.Fields{
			"mocks_dir": cfg.MocksDir,
		})
		source = mocks.NewMockService(cfg.MocksDir)
	}

	tracker := fetchers.NewTracker(source, cfg.TrackerAPIURL)
	builder := dashboard.NewBuilder(tracker, dashboard.Options{
		Panels: dashboard.DefaultPanels(dashboard.PanelSettings{
			Location:        loc,
			ComparisonPairs: cfg.ComparisonPairs,
		}),
		WinrateDays: cfg.WinrateDays,
		ScriptURL:   cfg.EChartsScriptURL,
	})
	return cfg, builder, nil
}
