// Package export writes rendered charts to an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"signalcharts/internal/charts"
)

// IndexSheet lists every chart of the workbook.
const IndexSheet = "Charts"

const maxSheetName = 31

var chartTypes = map[charts.Kind]excelize.ChartType{
	charts.KindBar:   excelize.Col,
	charts.KindLine:  excelize.Line,
	charts.KindRadar: excelize.Radar,
	charts.KindPie:   excelize.Pie,
}

type entry struct {
	surface string
	sheet   string
	kind    charts.Kind
	series  int
	rows    int
}

// WorkbookEngine implements charts.Engine by writing each chart to its own
// worksheet: labels in column A, one column per dataset and a native Excel
// chart beside the data. It is safe for concurrent use.
type WorkbookEngine struct {
	mu      sync.Mutex
	file    *excelize.File
	entries []entry
	used    map[string]bool
}

// NewWorkbookEngine creates an engine backed by an empty workbook.
func NewWorkbookEngine() (*WorkbookEngine, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", IndexSheet); err != nil {
		return nil, fmt.Errorf("failed to create index sheet: %w", err)
	}
	return &WorkbookEngine{file: f, used: map[string]bool{strings.ToLower(IndexSheet): true}}, nil
}

// Name implements charts.Engine.
func (e *WorkbookEngine) Name() string {
	return "xlsx"
}

// Render implements charts.Engine. The output data is the worksheet name.
func (e *WorkbookEngine) Render(surfaceID string, cfg charts.Config) (charts.Output, error) {
	chartType, ok := chartTypes[cfg.Kind]
	if !ok {
		return charts.Output{}, fmt.Errorf("%w: %q", charts.ErrUnsupportedKind, cfg.Kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sheet := e.sheetName(surfaceID)
	if _, err := e.file.NewSheet(sheet); err != nil {
		return charts.Output{}, fmt.Errorf("failed to add sheet %q: %w", sheet, err)
	}
	if err := e.writeData(sheet, cfg); err != nil {
		return charts.Output{}, err
	}
	if len(cfg.Labels) > 0 && len(cfg.Datasets) > 0 {
		if err := e.file.AddChart(sheet, anchorCell(len(cfg.Datasets)), chartSpec(sheet, chartType, surfaceID, cfg)); err != nil {
			return charts.Output{}, fmt.Errorf("failed to add %s chart to %q: %w", cfg.Kind, sheet, err)
		}
	}

	e.used[strings.ToLower(sheet)] = true
	e.entries = append(e.entries, entry{
		surface: surfaceID,
		sheet:   sheet,
		kind:    cfg.Kind,
		series:  cfg.SeriesCount(),
		rows:    len(cfg.Labels),
	})
	return charts.Output{MediaType: charts.MediaXLSX, Data: []byte(sheet)}, nil
}

func (e *WorkbookEngine) writeData(sheet string, cfg charts.Config) error {
	header := []interface{}{"Label"}
	for _, ds := range cfg.Datasets {
		name := ds.Label
		if name == "" {
			name = "Value"
		}
		header = append(header, name)
	}
	if err := e.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet, err)
	}

	for i, label := range cfg.Labels {
		row := []interface{}{label}
		for _, ds := range cfg.Datasets {
			if i < len(ds.Data) {
				row = append(row, ds.Data[i])
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := e.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+2, sheet, err)
		}
	}
	return nil
}

func chartSpec(sheet string, chartType excelize.ChartType, title string, cfg charts.Config) *excelize.Chart {
	last := len(cfg.Labels) + 1
	spec := &excelize.Chart{
		Type:   chartType,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: legendPosition(cfg.Options.LegendPosition)},
	}
	for i, ds := range cfg.Datasets {
		col, _ := excelize.ColumnNumberToName(i + 2)
		series := excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, col),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, last),
		}
		if cfg.Kind != charts.KindPie && len(ds.BorderColor) > 0 {
			series.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ds.BorderColor[0].Hex()}}
		}
		if cfg.Kind == charts.KindLine {
			series.Line = excelize.ChartLine{Smooth: ds.Tension > 0}
		}
		spec.Series = append(spec.Series, series)
	}
	if y := cfg.Options.Y; y != nil {
		spec.YAxis = excelize.ChartAxis{Minimum: y.Min, Maximum: y.Max}
	}
	return spec
}

func legendPosition(pos string) string {
	switch pos {
	case "right", "left", "bottom", "top":
		return pos
	default:
		return "top"
	}
}

// anchorCell places the chart two columns right of the data.
func anchorCell(datasets int) string {
	col, _ := excelize.ColumnNumberToName(datasets + 3)
	return col + "2"
}

// sheetName derives a unique worksheet name from a surface id. Caller holds mu.
func (e *WorkbookEngine) sheetName(surfaceID string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, surfaceID)
	if base == "" {
		base = "chart"
	}
	name := truncate(base, maxSheetName)
	for n := 2; e.used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf("-%d", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	return name
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Sheets returns the chart worksheets keyed by surface id.
func (e *WorkbookEngine) Sheets() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.entries))
	for _, en := range e.entries {
		out[en.surface] = en.sheet
	}
	return out
}

func (e *WorkbookEngine) writeIndex() error {
	entries := append([]entry(nil), e.entries...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].sheet < entries[j].sheet })

	header := []interface{}{"Surface", "Sheet", "Kind", "Series", "Rows"}
	if err := e.file.SetSheetRow(IndexSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write index header: %w", err)
	}
	for i, en := range entries {
		row := []interface{}{en.surface, en.sheet, string(en.kind), en.series, en.rows}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := e.file.SetSheetRow(IndexSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write index row: %w", err)
		}
	}
	return nil
}

// WriteTo writes the workbook, including the index sheet, to w.
func (e *WorkbookEngine) WriteTo(w io.Writer) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.writeIndex(); err != nil {
		return 0, err
	}
	e.file.SetActiveSheet(0)
	n, err := e.file.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write workbook: %w", err)
	}
	return n, nil
}

// Close releases the workbook.
func (e *WorkbookEngine) Close() error {
	return e.file.Close()
}
