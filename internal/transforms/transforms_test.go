package transforms

import (
	"fmt"
	"testing"
	"time"

	"signalcharts/internal/models"
)

var samplePairs = models.PairPerformance{
	"ETHUSDT": {Trades: 10, Wins: 4, Winrate: 0.4},
	"BTCUSDT": {Trades: 20, Wins: 15, Winrate: 0.75},
	"SOLUSDT": {Trades: 5, Wins: 5, Winrate: 1},
	"XRPUSDT": {Trades: 2, Wins: 0, Winrate: 0},
}

func strPtr(s string) *string { return &s }

func TestPairWinrates(t *testing.T) {
	req := PairWinrates(samplePairs)
	if fmt.Sprint(req.Labels) != "[BTCUSDT ETHUSDT SOLUSDT XRPUSDT]" {
		t.Errorf("Unexpected labels %v", req.Labels)
	}
	if fmt.Sprint(req.Values) != "[75 40 100 0]" {
		t.Errorf("Unexpected values %v", req.Values)
	}
}

func TestPairTradeCounts(t *testing.T) {
	req := PairTradeCounts(samplePairs)
	if fmt.Sprint(req.Values) != "[20 10 5 2]" {
		t.Errorf("Unexpected values %v", req.Values)
	}

	empty := PairTradeCounts(models.PairPerformance{})
	if len(empty.Labels) != 0 || len(empty.Values) != 0 {
		t.Errorf("Expected empty request, got %+v", empty)
	}
}

func TestPairComparison(t *testing.T) {
	req := PairComparison(2)(samplePairs)

	if len(req.Metrics) != 3 || req.Metrics[0] != MetricWinrate {
		t.Errorf("Unexpected metrics %v", req.Metrics)
	}
	if len(req.Datasets) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(req.Datasets))
	}
	if req.Datasets[0].Label != "BTCUSDT" || req.Datasets[1].Label != "ETHUSDT" {
		t.Errorf("Expected busiest pairs first, got %s, %s", req.Datasets[0].Label, req.Datasets[1].Label)
	}

	// 37 trades and 24 wins in total.
	btc := req.Datasets[0].Values
	if btc[0] != 75 {
		t.Errorf("Expected winrate 75, got %v", btc[0])
	}
	if got := fmt.Sprintf("%.2f/%.2f", btc[1], btc[2]); got != "54.05/62.50" {
		t.Errorf("Unexpected shares %s", got)
	}
	for _, ds := range req.Datasets {
		if len(ds.Values) != len(req.Metrics) {
			t.Errorf("Dataset %s has %d values", ds.Label, len(ds.Values))
		}
	}
}

func TestPairComparisonLimits(t *testing.T) {
	if n := len(PairComparison(0)(samplePairs).Datasets); n != 4 {
		t.Errorf("Expected no limit for 0, got %d datasets", n)
	}
	if n := len(PairComparison(10)(samplePairs).Datasets); n != 4 {
		t.Errorf("Expected all 4 pairs, got %d", n)
	}
	empty := PairComparison(3)(models.PairPerformance{})
	if len(empty.Datasets) != 0 {
		t.Errorf("Expected no datasets, got %d", len(empty.Datasets))
	}
	zero := PairComparison(3)(models.PairPerformance{"A": {}})
	if fmt.Sprint(zero.Datasets[0].Values) != "[0 0 0]" {
		t.Errorf("Expected zero shares, got %v", zero.Datasets[0].Values)
	}
}

func TestDailyTradeCounts(t *testing.T) {
	signals := []models.Signal{
		{Timestamp: "2024-03-08T09:00:00"},
		{Timestamp: "2024-03-07T10:00:00"},
		{Timestamp: "2024-03-07T23:59:59.123456"},
		{Timestamp: "garbage"},
		{Timestamp: "2024-03-10 08:00:00"},
	}
	req := DailyTradeCounts(time.UTC)(signals)

	if fmt.Sprint(req.Labels) != "[3/7 3/8 3/10]" {
		t.Errorf("Unexpected labels %v", req.Labels)
	}
	if fmt.Sprint(req.Values) != "[2 1 1]" {
		t.Errorf("Unexpected values %v", req.Values)
	}
}

func TestDailyTradeCountsZone(t *testing.T) {
	signals := []models.Signal{{Timestamp: "2024-03-07T23:30:00Z"}}
	east := time.FixedZone("UTC+2", 2*60*60)

	req := DailyTradeCounts(east)(signals)
	if fmt.Sprint(req.Labels) != "[3/8]" {
		t.Errorf("Expected the day in the target zone, got %v", req.Labels)
	}
}

func TestDistributions(t *testing.T) {
	signals := []models.Signal{
		{Direction: models.DirectionLong, Outcome: strPtr(models.OutcomeWin)},
		{Direction: models.DirectionLong, Outcome: strPtr(models.OutcomeLoss)},
		{Direction: models.DirectionShort, Outcome: strPtr(models.OutcomeWin)},
		{Direction: models.DirectionShort},
		{Direction: "FLAT", Outcome: strPtr("")},
	}

	outcomes := OutcomeDistribution(signals)
	if fmt.Sprint(outcomes.Labels) != "[Win Loss Open]" || fmt.Sprint(outcomes.Values) != "[2 1 2]" {
		t.Errorf("Unexpected outcomes %+v", outcomes)
	}

	directions := DirectionDistribution(signals)
	if fmt.Sprint(directions.Labels) != "[LONG SHORT]" || fmt.Sprint(directions.Values) != "[2 2]" {
		t.Errorf("Unexpected directions %+v", directions)
	}

	empty := OutcomeDistribution(nil)
	if fmt.Sprint(empty.Values) != "[0 0 0]" {
		t.Errorf("Unexpected empty outcomes %+v", empty)
	}
}

func TestTopPairs(t *testing.T) {
	ranks := TopPairs(samplePairs, DefaultMinTrades, DefaultTopPairs)
	if len(ranks) != 3 {
		t.Fatalf("Expected 3 ranks, got %d", len(ranks))
	}
	got := fmt.Sprintf("%s %s %s", ranks[0].Pair, ranks[1].Pair, ranks[2].Pair)
	if got != "SOLUSDT BTCUSDT ETHUSDT" {
		t.Errorf("Unexpected order %s", got)
	}
	if ranks[0].Winrate != 100 || ranks[0].Trades != 5 {
		t.Errorf("Unexpected top rank %+v", ranks[0])
	}

	if n := len(TopPairs(samplePairs, 50, 3)); n != 0 {
		t.Errorf("Expected no ranks above 50 trades, got %d", n)
	}
}
