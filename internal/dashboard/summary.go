package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"signalcharts/internal/models"
	"signalcharts/internal/transforms"
)

// Summarizer renders the performance report shown above the charts.
type Summarizer struct {
	md goldmark.Markdown
}

// NewSummarizer creates a summarizer with GFM tables enabled.
func NewSummarizer() *Summarizer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	return &Summarizer{md: md}
}

// Markdown writes the performance report for the last days.
func (s *Summarizer) Markdown(stats *models.WinrateStats, days int, top []transforms.PairRank) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### 📊 Performance Report (Last %d Days)\n\n", days)
	fmt.Fprintf(&b, "- ✅ **Winrate:** %.1f%%\n", stats.Winrate)
	fmt.Fprintf(&b, "- 📈 **Total Trades:** %d\n", stats.TotalTrades)
	fmt.Fprintf(&b, "- ⏳ **Avg Duration:** %.1f mins\n", stats.AvgDurationMins)
	fmt.Fprintf(&b, "- 🔥 **Current Win Streak:** %d\n", stats.RecentWinStreak)
	fmt.Fprintf(&b, "- ⚖️ **Weighted Winrate:** %.1f%%\n", stats.WeightedWinrate)

	if len(top) > 0 {
		b.WriteString("\n#### Top Pairs\n\n")
		b.WriteString("| Pair | Winrate | Trades |\n")
		b.WriteString("|------|--------:|-------:|\n")
		for _, r := range top {
			fmt.Fprintf(&b, "| %s | %.1f%% | %d |\n", r.Pair, r.Winrate, r.Trades)
		}
	}
	return b.String()
}

// HTML converts report markdown to HTML. Raw HTML in the input is dropped.
func (s *Summarizer) HTML(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
