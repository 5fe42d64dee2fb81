package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"signalcharts/internal/charts"
	"signalcharts/internal/fetchers"
	"signalcharts/internal/logger"
	"signalcharts/internal/metrics"
	"signalcharts/internal/transforms"
)

// ErrPanelFailed is returned by Builder.Panel when the chart could not be
// loaded.
var ErrPanelFailed = errors.New("panel failed to render")

// Options configure a Builder.
type Options struct {
	Panels      []Panel
	WinrateDays int
	ScriptURL   string
	Log         *logger.Logger
}

// Builder loads the dashboard panels from the tracker API.
type Builder struct {
	tracker     *fetchers.Tracker
	panels      []Panel
	winrateDays int
	scriptURL   string
	summarizer  *Summarizer
	log         *logger.Logger
	now         func() time.Time
}

// NewBuilder creates a dashboard builder. Without panels it uses
// DefaultPanels with default settings.
func NewBuilder(tracker *fetchers.Tracker, opts Options) *Builder {
	if len(opts.Panels) == 0 {
		opts.Panels = DefaultPanels(PanelSettings{})
	}
	if opts.WinrateDays <= 0 {
		opts.WinrateDays = 30
	}
	if opts.Log == nil {
		opts.Log = logger.Component("dashboard")
	}
	return &Builder{
		tracker:     tracker,
		panels:      opts.Panels,
		winrateDays: opts.WinrateDays,
		scriptURL:   opts.ScriptURL,
		summarizer:  NewSummarizer(),
		log:         opts.Log,
		now:         time.Now,
	}
}

// Tracker returns the tracker API reader the panels load from.
func (b *Builder) Tracker() *fetchers.Tracker {
	return b.tracker
}

// Panels returns the configured panels in page order.
func (b *Builder) Panels() []Panel {
	return b.panels
}

func (b *Builder) board() *charts.Board {
	ids := make([]string, 0, len(b.panels))
	for _, p := range b.panels {
		ids = append(ids, p.Surface)
	}
	return charts.NewBoard(ids...)
}

// Build renders every panel with engine on a fresh board. Panels load
// concurrently; a failed panel carries the error notice instead of a chart.
func (b *Builder) Build(ctx context.Context, engine charts.Engine) (*Page, error) {
	start := b.now()
	board := b.board()
	gen := charts.NewGenerator(engine, board)
	upd := charts.NewUpdater(b.tracker.Client(), board, b.log)

	b.log.Info("Building dashboard", logger.Fields{"engine": engine.Name(), "panels": len(b.panels)})

	var wg sync.WaitGroup
	for _, p := range b.panels {
		wg.Add(1)
		go func(p Panel) {
			defer wg.Done()
			p.Load(ctx, upd, gen, b.tracker.URL(p.Path))
		}(p)
	}

	var summary template.HTML
	wg.Add(1)
	go func() {
		defer wg.Done()
		summary = b.summary(ctx)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dashboard build cancelled: %w", err)
	}

	page := &Page{
		Title:       "Signal Tracker Dashboard",
		Engine:      engine.Name(),
		GeneratedAt: b.now(),
		Summary:     summary,
	}
	if engine.Name() == "echarts" {
		page.ScriptURL = b.scriptURL
	}
	failed := 0
	for _, p := range b.panels {
		view := newPanelView(p, board)
		if view.Failed() {
			failed++
		}
		page.Panels = append(page.Panels, view)
	}
	metrics.DashboardBuilds.WithLabelValues(engine.Name()).Inc()

	b.log.Info("Dashboard built", logger.Fields{
		"engine":      engine.Name(),
		"failed":      failed,
		"duration_ms": b.now().Sub(start).Milliseconds(),
	})
	return page, nil
}

// Panel renders the panel on surface alone. It fails with
// charts.ErrSurfaceNotFound for an unknown surface and ErrPanelFailed when
// the chart could not be loaded.
func (b *Builder) Panel(ctx context.Context, engine charts.Engine, surface string) (*PanelView, error) {
	for _, p := range b.panels {
		if p.Surface != surface {
			continue
		}
		board := charts.NewBoard(surface)
		gen := charts.NewGenerator(engine, board)
		upd := charts.NewUpdater(b.tracker.Client(), board, b.log)

		p.Load(ctx, upd, gen, b.tracker.URL(p.Path))
		view := newPanelView(p, board)
		if view.Failed() {
			return &view, fmt.Errorf("%w: %s", ErrPanelFailed, surface)
		}
		return &view, nil
	}
	return nil, fmt.Errorf("%w: %q", charts.ErrSurfaceNotFound, surface)
}

func (b *Builder) summary(ctx context.Context) template.HTML {
	stats, err := b.tracker.Winrate(ctx, b.winrateDays)
	if err != nil {
		b.log.Error("Failed to load winrate summary", err)
		return ""
	}

	var top []transforms.PairRank
	if pairs, err := b.tracker.Pairs(ctx); err != nil {
		b.log.Warn("Top pairs unavailable", logger.Fields{"error": err.Error()})
	} else {
		top = transforms.TopPairs(pairs, transforms.DefaultMinTrades, transforms.DefaultTopPairs)
	}

	html, err := b.summarizer.HTML(b.summarizer.Markdown(stats, b.winrateDays, top))
	if err != nil {
		b.log.Error("Failed to render winrate summary", err)
		return ""
	}
	return html
}
