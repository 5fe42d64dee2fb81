package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PNGEngine renders static chart images with go-chart. Radar charts are not
// supported.
type PNGEngine struct {
	width  int
	height int
}

// NewPNGEngine creates a PNG engine; non-positive sizes default to 800x400.
func NewPNGEngine(width, height int) *PNGEngine {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}
	return &PNGEngine{width: width, height: height}
}

// Name implements Engine.
func (e *PNGEngine) Name() string {
	return "png"
}

// Render implements Engine.
func (e *PNGEngine) Render(surfaceID string, cfg Config) (Output, error) {
	var buf bytes.Buffer
	var err error

	switch cfg.Kind {
	case KindBar:
		graph := e.bar(cfg)
		err = graph.Render(chart.PNG, &buf)
	case KindLine:
		graph := e.line(cfg)
		err = graph.Render(chart.PNG, &buf)
	case KindPie:
		graph := e.pie(cfg)
		err = graph.Render(chart.PNG, &buf)
	default:
		return Output{}, fmt.Errorf("%w: %q as png", ErrUnsupportedKind, cfg.Kind)
	}
	if err != nil {
		return Output{}, fmt.Errorf("failed to render %s png for %q: %w", cfg.Kind, surfaceID, err)
	}
	return Output{MediaType: MediaPNG, Data: buf.Bytes()}, nil
}

func (e *PNGEngine) background() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    40,
			Left:   20,
			Right:  20,
			Bottom: 20,
		},
		FillColor: drawing.Color{R: 248, G: 249, B: 250, A: 255},
	}
}

func (e *PNGEngine) bar(cfg Config) chart.BarChart {
	var bars []chart.Value
	for _, ds := range cfg.Datasets {
		for i, v := range ds.Data {
			fill, border := pngColors(ds, i)
			bars = append(bars, chart.Value{
				Value: v,
				Label: labelAt(cfg.Labels, i),
				Style: chart.Style{
					FillColor:   fill,
					StrokeColor: border,
					StrokeWidth: float64(ds.BorderWidth),
				},
			})
		}
	}

	barWidth := 60
	if n := len(bars); n > 0 && e.width/(2*n) < barWidth {
		barWidth = e.width / (2 * n)
	}

	graph := chart.BarChart{
		Width:      e.width,
		Height:     e.height,
		BarWidth:   barWidth,
		Background: e.background(),
		XAxis: chart.Style{
			FontSize:  10,
			FontColor: drawing.Color{R: 52, G: 58, B: 64, A: 255},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontSize:  10,
				FontColor: drawing.Color{R: 108, G: 117, B: 125, A: 255},
			},
		},
		Bars: bars,
	}
	if y := cfg.Options.Y; y != nil && y.Min != nil && y.Max != nil {
		graph.YAxis.Range = &chart.ContinuousRange{Min: *y.Min, Max: *y.Max}
	}
	return graph
}

func (e *PNGEngine) line(cfg Config) *chart.Chart {
	ticks := make([]chart.Tick, 0, len(cfg.Labels))
	for i, label := range cfg.Labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}

	series := make([]chart.Series, 0, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		xs := make([]float64, len(ds.Data))
		for i := range xs {
			xs[i] = float64(i)
		}
		fill, border := pngColors(ds, 0)
		series = append(series, chart.ContinuousSeries{
			Name: ds.Label,
			Style: chart.Style{
				StrokeColor: border,
				StrokeWidth: float64(ds.BorderWidth),
				FillColor:   fill,
			},
			XValues: xs,
			YValues: append([]float64(nil), ds.Data...),
		})
	}

	graph := &chart.Chart{
		Width:      e.width,
		Height:     e.height,
		Background: e.background(),
		XAxis:      chart.XAxis{Ticks: ticks},
		Series:     series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph
}

func (e *PNGEngine) pie(cfg Config) chart.PieChart {
	var values []chart.Value
	for _, ds := range cfg.Datasets {
		for i, v := range ds.Data {
			fill, border := pngColors(ds, i)
			values = append(values, chart.Value{
				Value: v,
				Label: labelAt(cfg.Labels, i),
				Style: chart.Style{
					FillColor:   fill,
					StrokeColor: border,
					StrokeWidth: float64(ds.BorderWidth),
				},
			})
		}
	}
	return chart.PieChart{
		Width:      e.width,
		Height:     e.height,
		Background: e.background(),
		Values:     values,
	}
}

func pngColors(ds Dataset, i int) (drawing.Color, drawing.Color) {
	var fill, border drawing.Color
	if c, ok := colorAt(ds.BackgroundColor, i); ok {
		fill = drawing.Color{R: c.R, G: c.G, B: c.B, A: c.Alpha8()}
	}
	if c, ok := colorAt(ds.BorderColor, i); ok {
		border = drawing.Color{R: c.R, G: c.G, B: c.B, A: c.Alpha8()}
	}
	return fill, border
}
