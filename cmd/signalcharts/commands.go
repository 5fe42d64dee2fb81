package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"signalcharts/internal/charts"
	"signalcharts/internal/dashboard"
	"signalcharts/internal/export"
	"signalcharts/internal/logger"
	"signalcharts/internal/models"
	"signalcharts/internal/server"
	"signalcharts/internal/storage"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the live dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, builder, err := setup(ctx)
			if err != nil {
				return err
			}
			store, err := storage.New(ctx, cfg)
			if err != nil {
				return err
			}

			log := logger.Component("main")
			log.Info("Starting signal chart service", logger.Fields{
				"port":        cfg.Port,
				"environment": cfg.Environment,
				"tracker":     cfg.TrackerAPIURL,
				"storage":     cfg.StorageMode,
			})

			srv := server.NewServer(cfg, builder, store)
			defer srv.Close()
			if err := srv.ListenAndServe(ctx); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			log.Info("Server stopped")
			return nil
		},
	}
}

func renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard once and publish it to storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, builder, err := setup(ctx)
			if err != nil {
				return err
			}
			store, err := storage.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := dashboard.Publish(ctx, builder, charts.NewEChartsEngine(cfg.ChartHeight), store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %s (%d panels, %d failed)\n", result.Path, result.Panels, result.Failed)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every chart to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, builder, err := setup(ctx)
			if err != nil {
				return err
			}

			engine, err := export.NewWorkbookEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			page, err := builder.Build(ctx, engine)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if _, err := engine.WriteTo(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d charts, %d failed)\n", out, len(page.Panels)-page.Failed(), page.Failed())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "signal-dashboard.xlsx", "Output workbook path")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Load every panel and print a summary table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, builder, err := setup(ctx)
			if err != nil {
				return err
			}

			page, err := builder.Build(ctx, charts.NewEChartsEngine(cfg.ChartHeight))
			if err != nil {
				return err
			}
			renderInspection(cmd, page)

			signals, err := builder.Tracker().Signals(ctx)
			if err != nil {
				logger.Warn("Open signals unavailable", logger.Fields{"error": err.Error()})
				return nil
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			renderOpenSignals(cmd, signals, loc)
			return nil
		},
	}
}

// renderOpenSignals lists the signals that have no outcome yet.
func renderOpenSignals(cmd *cobra.Command, signals []models.Signal, loc *time.Location) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.SetTitle("Open signals")
	t.AppendHeader(table.Row{"id", "pair", "direction", "entry", "tp1", "sl", "opened"})

	open := 0
	for _, sig := range signals {
		if sig.IsClosed() {
			continue
		}
		open++
		t.AppendRow(table.Row{sig.ID, sig.Pair, sig.Direction, sig.Entry, sig.TP1, sig.SL,
			charts.FormatTimestampIn(loc, sig.Timestamp, "long")})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "open", fmt.Sprintf("%d of %d", open, len(signals))})
	t.Render()
}

func renderInspection(cmd *cobra.Command, page *dashboard.Page) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"surface", "title", "kind", "series", "labels", "status"})

	for _, v := range page.Panels {
		if v.Failed() {
			t.AppendRow(table.Row{v.Surface, v.Title, v.Kind, "-", "-", "failed"})
			continue
		}
		cfg := v.Instance.Config
		t.AppendRow(table.Row{v.Surface, v.Title, cfg.Kind, cfg.SeriesCount(), labelSummary(cfg.Labels), "ok"})
	}
	t.AppendFooter(table.Row{"", "", "", "", "failed", page.Failed()})
	t.Render()
}

// labelSummary shortens long label lists for the table.
func labelSummary(labels []string) string {
	const shown = 4
	if len(labels) <= shown {
		return strings.Join(labels, ", ")
	}
	return fmt.Sprintf("%s, ... (%d)", strings.Join(labels[:shown], ", "), len(labels))
}
