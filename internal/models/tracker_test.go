package models

import (
	"encoding/json"
	"testing"
)

func TestSignalDecodesTrackerPayload(t *testing.T) {
	payload := `[
		{"id": 7, "pair": "BTCUSDT", "direction": "LONG", "entry": 64000.5, "tp1": 65000, "tp2": null,
		 "sl": 63000, "timestamp": "2024-03-07T14:05:09.123456", "outcome": "WIN", "closed_at": 65010, "duration": 95},
		{"id": 8, "pair": "ETHUSDT", "direction": "SHORT", "entry": 3400, "tp1": 3300, "tp2": 3200,
		 "sl": 3500, "timestamp": "2024-03-08T09:00:00", "outcome": null, "closed_at": null, "duration": null}
	]`

	var signals []Signal
	if err := json.Unmarshal([]byte(payload), &signals); err != nil {
		t.Fatalf("Failed to decode signals: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("Expected 2 signals, got %d", len(signals))
	}

	won := signals[0]
	if !won.IsClosed() || !won.IsWin() {
		t.Errorf("Expected first signal to be a closed win: %+v", won)
	}
	if won.TP2 != nil {
		t.Errorf("Expected nil TP2, got %v", *won.TP2)
	}
	if won.Duration == nil || *won.Duration != 95 {
		t.Errorf("Expected duration 95, got %v", won.Duration)
	}

	open := signals[1]
	if open.IsClosed() || open.IsWin() {
		t.Errorf("Expected second signal to be open: %+v", open)
	}
	if open.TP2 == nil || *open.TP2 != 3200 {
		t.Errorf("Expected TP2 3200, got %v", open.TP2)
	}
}

func TestSignalLossIsNotWin(t *testing.T) {
	loss := OutcomeLoss
	s := Signal{Outcome: &loss}
	if !s.IsClosed() {
		t.Error("Expected LOSS signal to be closed")
	}
	if s.IsWin() {
		t.Error("Expected LOSS signal not to be a win")
	}

	empty := ""
	if (Signal{Outcome: &empty}).IsClosed() {
		t.Error("Expected empty outcome to count as open")
	}
}

func TestPairPerformanceDecodes(t *testing.T) {
	payload := `{"BTCUSDT": {"trades": 10, "wins": 7, "winrate": 0.7}, "SOLUSDT": {"trades": 0, "wins": 0, "winrate": 0}}`

	var perf PairPerformance
	if err := json.Unmarshal([]byte(payload), &perf); err != nil {
		t.Fatalf("Failed to decode pair performance: %v", err)
	}
	if got := perf["BTCUSDT"]; got.Trades != 10 || got.Wins != 7 || got.Winrate != 0.7 {
		t.Errorf("Unexpected BTCUSDT stats %+v", got)
	}
	if _, ok := perf["SOLUSDT"]; !ok {
		t.Error("Expected SOLUSDT entry")
	}
}

func TestComparisonRequestDecodes(t *testing.T) {
	payload := `{"metrics": ["Winrate", "Volume"], "datasets": [{"label": "BTC", "values": [70, 40]}]}`

	var req ComparisonRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("Failed to decode comparison request: %v", err)
	}
	if len(req.Metrics) != 2 || len(req.Datasets) != 1 || req.Datasets[0].Values[1] != 40 {
		t.Errorf("Unexpected request %+v", req)
	}
}
