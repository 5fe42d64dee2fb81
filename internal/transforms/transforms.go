// Package transforms maps tracker API payloads to chart requests.
//
// Every function is pure and orders its output deterministically so that
// repeated renders of the same payload produce identical charts.
package transforms

import (
	"sort"
	"time"

	"signalcharts/internal/charts"
	"signalcharts/internal/models"
)

// Comparison metrics, in radar axis order.
const (
	MetricWinrate    = "Winrate"
	MetricTradeShare = "Share of trades"
	MetricWinShare   = "Share of wins"
)

// Outcome distribution labels.
const (
	OutcomeLabelWin  = "Win"
	OutcomeLabelLoss = "Loss"
	OutcomeLabelOpen = "Open"
)

// Top performers need this many trades to rank.
const (
	DefaultMinTrades = 5
	DefaultTopPairs  = 3
)

func pairNames(p models.PairPerformance) []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PairWinrates charts the winrate of every pair as a percentage.
func PairWinrates(p models.PairPerformance) models.ChartRequest {
	names := pairNames(p)
	req := models.ChartRequest{Labels: names, Values: make([]float64, len(names))}
	for i, name := range names {
		req.Values[i] = p[name].Winrate * 100
	}
	return req
}

// PairTradeCounts charts the number of closed trades of every pair.
func PairTradeCounts(p models.PairPerformance) models.ChartRequest {
	names := pairNames(p)
	req := models.ChartRequest{Labels: names, Values: make([]float64, len(names))}
	for i, name := range names {
		req.Values[i] = float64(p[name].Trades)
	}
	return req
}

// busiest orders pairs by trade count, then by name.
func busiest(p models.PairPerformance) []string {
	names := pairNames(p)
	sort.SliceStable(names, func(i, j int) bool {
		return p[names[i]].Trades > p[names[j]].Trades
	})
	return names
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// PairComparison returns a transform that compares the limit busiest pairs
// on winrate and their share of all trades and wins.
func PairComparison(limit int) func(models.PairPerformance) models.ComparisonRequest {
	return func(p models.PairPerformance) models.ComparisonRequest {
		var trades, wins int
		for _, s := range p {
			trades += s.Trades
			wins += s.Wins
		}

		names := busiest(p)
		if limit > 0 && len(names) > limit {
			names = names[:limit]
		}

		req := models.ComparisonRequest{
			Metrics:  []string{MetricWinrate, MetricTradeShare, MetricWinShare},
			Datasets: make([]models.ComparisonDataset, 0, len(names)),
		}
		for _, name := range names {
			s := p[name]
			req.Datasets = append(req.Datasets, models.ComparisonDataset{
				Label:  name,
				Values: []float64{s.Winrate * 100, share(s.Trades, trades), share(s.Wins, wins)},
			})
		}
		return req
	}
}

// DailyTradeCounts returns a transform that counts signals per calendar day
// in loc. Days are labeled M/D; signals with unreadable timestamps are skipped.
func DailyTradeCounts(loc *time.Location) func([]models.Signal) models.ChartRequest {
	if loc == nil {
		loc = time.Local
	}
	return func(signals []models.Signal) models.ChartRequest {
		counts := map[time.Time]int{}
		for _, s := range signals {
			ts, ok := charts.ParseTimestamp(s.Timestamp, loc)
			if !ok {
				continue
			}
			y, m, d := ts.Date()
			counts[time.Date(y, m, d, 0, 0, 0, 0, loc)]++
		}

		days := make([]time.Time, 0, len(counts))
		for day := range counts {
			days = append(days, day)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		req := models.ChartRequest{Labels: make([]string, len(days)), Values: make([]float64, len(days))}
		for i, day := range days {
			req.Labels[i] = charts.FormatTimestampIn(loc, day, charts.FormatShort)
			req.Values[i] = float64(counts[day])
		}
		return req
	}
}

// OutcomeDistribution counts won, lost and still open signals.
func OutcomeDistribution(signals []models.Signal) models.ChartRequest {
	var win, loss, open float64
	for _, s := range signals {
		switch {
		case !s.IsClosed():
			open++
		case s.IsWin():
			win++
		default:
			loss++
		}
	}
	return models.ChartRequest{
		Labels: []string{OutcomeLabelWin, OutcomeLabelLoss, OutcomeLabelOpen},
		Values: []float64{win, loss, open},
	}
}

// DirectionDistribution counts long and short signals.
func DirectionDistribution(signals []models.Signal) models.ChartRequest {
	var long, short float64
	for _, s := range signals {
		switch s.Direction {
		case models.DirectionLong:
			long++
		case models.DirectionShort:
			short++
		}
	}
	return models.ChartRequest{
		Labels: []string{models.DirectionLong, models.DirectionShort},
		Values: []float64{long, short},
	}
}

// PairRank is one row of the top performers table.
type PairRank struct {
	Pair    string
	Winrate float64
	Trades  int
}

// TopPairs returns up to n pairs with at least minTrades trades, best winrate
// first. Winrates are percentages.
func TopPairs(p models.PairPerformance, minTrades, n int) []PairRank {
	var ranks []PairRank
	for _, name := range pairNames(p) {
		s := p[name]
		if s.Trades < minTrades {
			continue
		}
		ranks = append(ranks, PairRank{Pair: name, Winrate: s.Winrate * 100, Trades: s.Trades})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Winrate > ranks[j].Winrate })
	if n >= 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}
