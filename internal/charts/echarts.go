package charts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	chartrender "github.com/go-echarts/go-echarts/v2/render"
)

const (
	elementTpl = `<div class="chart-surface" id="{{ .ID }}" style="width:{{ .Width }};height:{{ .Height }};"></div>`
	scriptTpl  = `<script>(function(){var el=document.getElementById({{ .ID }});if(!el)return;var c=echarts.init(el);c.setOption({{ .Option }});window.addEventListener('resize',function(){c.resize();});})();</script>`
)

var (
	elementTemplate = template.Must(template.New("element").Parse(elementTpl))
	scriptTemplate  = template.Must(template.New("script").Parse(scriptTpl))
)

// optionSource is implemented by every go-echarts chart.
type optionSource interface {
	JSON() map[string]interface{}
}

type snippetData struct {
	ID     string
	Width  string
	Height string
	Option template.JS
}

// snippetRenderer renders a go-echarts chart as an embeddable div and init
// script instead of a full HTML page. The option JSON keeps json.Marshal's
// HTML escaping so labels cannot close the script element.
type snippetRenderer struct {
	c      optionSource
	init   *opts.Initialization
	before []func()
}

func newSnippetRenderer(c optionSource, init *opts.Initialization, before ...func()) chartrender.Renderer {
	return &snippetRenderer{c: c, init: init, before: before}
}

func (r *snippetRenderer) snippet() (chartrender.ChartSnippet, error) {
	for _, fn := range r.before {
		fn()
	}
	r.before = nil

	option, err := json.Marshal(r.c.JSON())
	if err != nil {
		return chartrender.ChartSnippet{}, fmt.Errorf("failed to marshal chart options: %w", err)
	}
	data := snippetData{
		ID:     r.init.ChartID,
		Width:  r.init.Width,
		Height: r.init.Height,
		Option: template.JS(option),
	}

	var element, script bytes.Buffer
	if err := elementTemplate.Execute(&element, data); err != nil {
		return chartrender.ChartSnippet{}, err
	}
	if err := scriptTemplate.Execute(&script, data); err != nil {
		return chartrender.ChartSnippet{}, err
	}
	return chartrender.ChartSnippet{
		Element: element.String(),
		Script:  script.String(),
		Option:  string(option),
	}, nil
}

// Render writes the element followed by its init script.
func (r *snippetRenderer) Render(w io.Writer) error {
	s, err := r.snippet()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s.Element+"\n"+s.Script)
	return err
}

// RenderContent panics on failure, like the library's own renderers.
func (r *snippetRenderer) RenderContent() []byte {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (r *snippetRenderer) RenderSnippet() chartrender.ChartSnippet {
	s, err := r.snippet()
	if err != nil {
		panic(err)
	}
	return s
}

// EChartsEngine renders charts as ECharts snippets sized to fill their
// container.
type EChartsEngine struct {
	width  string
	height string
}

// NewEChartsEngine creates an ECharts engine. An empty height defaults to 360px.
func NewEChartsEngine(height string) *EChartsEngine {
	if height == "" {
		height = "360px"
	}
	return &EChartsEngine{width: "100%", height: height}
}

// Name implements Engine.
func (e *EChartsEngine) Name() string {
	return "echarts"
}

// Render implements Engine.
func (e *EChartsEngine) Render(surfaceID string, cfg Config) (Output, error) {
	var r chartrender.Renderer
	switch cfg.Kind {
	case KindBar:
		r = e.bar(surfaceID, cfg)
	case KindLine:
		r = e.line(surfaceID, cfg)
	case KindRadar:
		r = e.radar(surfaceID, cfg)
	case KindPie:
		r = e.pie(surfaceID, cfg)
	default:
		return Output{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, cfg.Kind)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return Output{}, fmt.Errorf("failed to render echarts snippet: %w", err)
	}
	return Output{MediaType: MediaHTML + "; charset=utf-8", Data: buf.Bytes()}, nil
}

func (e *EChartsEngine) globals(surfaceID string, cfg Config, trigger string) []echarts.GlobalOpts {
	return []echarts.GlobalOpts{
		echarts.WithInitializationOpts(opts.Initialization{
			ChartID: surfaceID,
			Width:   e.width,
			Height:  e.height,
		}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}),
		echarts.WithLegendOpts(legend(cfg)),
	}
}

func (e *EChartsEngine) bar(surfaceID string, cfg Config) *echarts.Bar {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(append(e.globals(surfaceID, cfg, "axis"),
		echarts.WithYAxisOpts(yAxis(cfg.Options.Y)))...)
	bar.SetXAxis(cfg.Labels)

	for _, ds := range cfg.Datasets {
		items := make([]opts.BarData, 0, len(ds.Data))
		for _, v := range ds.Data {
			items = append(items, opts.BarData{Value: v})
		}
		bar.AddSeries(ds.Label, items, echarts.WithItemStyleOpts(itemStyle(ds, 0)))
	}
	bar.Renderer = newSnippetRenderer(bar, &bar.Initialization, bar.Validate)
	return bar
}

func (e *EChartsEngine) line(surfaceID string, cfg Config) *echarts.Line {
	line := echarts.NewLine()
	line.SetGlobalOptions(append(e.globals(surfaceID, cfg, "axis"),
		echarts.WithYAxisOpts(yAxis(cfg.Options.Y)))...)
	line.SetXAxis(cfg.Labels)

	for _, ds := range cfg.Datasets {
		items := make([]opts.LineData, 0, len(ds.Data))
		for _, v := range ds.Data {
			items = append(items, opts.LineData{Value: v})
		}
		style := itemStyle(ds, 0)
		line.AddSeries(ds.Label, items,
			echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(ds.Tension > 0)}),
			echarts.WithLineStyleOpts(opts.LineStyle{Color: style.BorderColor}),
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: style.BorderColor}),
		)
	}
	line.Renderer = newSnippetRenderer(line, &line.Initialization, line.Validate)
	return line
}

func (e *EChartsEngine) radar(surfaceID string, cfg Config) *echarts.Radar {
	lo, hi := radialRange(cfg)
	indicators := make([]*opts.Indicator, 0, len(cfg.Labels))
	for _, label := range cfg.Labels {
		indicators = append(indicators, &opts.Indicator{Name: label, Min: float32(lo), Max: float32(hi)})
	}

	component := opts.RadarComponent{Indicator: indicators}
	if cfg.Options.R != nil && cfg.Options.R.AngleLines {
		component.AxisLine = &opts.AxisLine{Show: opts.Bool(true)}
	}

	radar := echarts.NewRadar()
	radar.SetGlobalOptions(append(e.globals(surfaceID, cfg, "item"),
		echarts.WithRadarComponentOpts(component))...)

	for _, ds := range cfg.Datasets {
		style := itemStyle(ds, 0)
		radar.AddSeries(ds.Label, []opts.RadarData{{Name: ds.Label, Value: ds.Data}},
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: style.BorderColor}),
			echarts.WithAreaStyleOpts(opts.AreaStyle{Color: style.Color}),
		)
	}
	radar.Renderer = newSnippetRenderer(radar, &radar.Initialization, radar.Validate)
	return radar
}

func (e *EChartsEngine) pie(surfaceID string, cfg Config) *echarts.Pie {
	pie := echarts.NewPie()
	pie.SetGlobalOptions(e.globals(surfaceID, cfg, "item")...)

	for _, ds := range cfg.Datasets {
		items := make([]opts.PieData, 0, len(ds.Data))
		for i, v := range ds.Data {
			style := itemStyle(ds, i)
			items = append(items, opts.PieData{Name: labelAt(cfg.Labels, i), Value: v, ItemStyle: &style})
		}
		pie.AddSeries(ds.Label, items, echarts.WithPieChartOpts(opts.PieChart{Radius: "70%"}))
	}
	pie.Renderer = newSnippetRenderer(pie, &pie.Initialization, pie.Validate)
	return pie
}

func legend(cfg Config) opts.Legend {
	l := opts.Legend{Show: opts.Bool(true)}
	if cfg.Kind == KindPie {
		l.Data = cfg.Labels
	}
	switch cfg.Options.LegendPosition {
	case "right":
		l.Orient = "vertical"
		l.Right = "0"
		l.Top = "middle"
	case "left":
		l.Orient = "vertical"
		l.Left = "0"
		l.Top = "middle"
	case "bottom":
		l.Bottom = "0"
	default:
		l.Top = "0"
	}
	return l
}

func yAxis(a *Axis) opts.YAxis {
	y := opts.YAxis{Type: "value"}
	if a == nil {
		return y
	}
	if a.Min != nil {
		y.Min = *a.Min
	}
	if a.Max != nil {
		y.Max = *a.Max
	}
	return y
}

func itemStyle(ds Dataset, i int) opts.ItemStyle {
	var style opts.ItemStyle
	if c, ok := colorAt(ds.BackgroundColor, i); ok {
		style.Color = c.CSS()
	}
	if c, ok := colorAt(ds.BorderColor, i); ok {
		style.BorderColor = c.CSS()
	}
	return style
}

// colorAt returns colors[i], or the only color for single-color datasets.
func colorAt(colors []Color, i int) (Color, bool) {
	switch {
	case i < len(colors):
		return colors[i], true
	case len(colors) == 1:
		return colors[0], true
	default:
		return Color{}, false
	}
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

// radialRange widens the suggested radial range to fit the data. Hard
// bounds, when set, win.
func radialRange(cfg Config) (float64, float64) {
	lo, hi := 0.0, 100.0
	r := cfg.Options.R
	if r != nil {
		if r.SuggestedMin != nil {
			lo = *r.SuggestedMin
		}
		if r.SuggestedMax != nil {
			hi = *r.SuggestedMax
		}
	}
	for _, ds := range cfg.Datasets {
		for _, v := range ds.Data {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if r != nil {
		if r.Min != nil {
			lo = *r.Min
		}
		if r.Max != nil {
			hi = *r.Max
		}
	}
	return lo, hi
}
