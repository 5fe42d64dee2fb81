package models

// Signal directions and outcomes as reported by the tracker API.
const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"

	OutcomeWin  = "WIN"
	OutcomeLoss = "LOSS"
)

// Signal is one entry of GET /api/signals.
type Signal struct {
	ID        int      `json:"id"`
	Pair      string   `json:"pair"`
	Direction string   `json:"direction"`
	Entry     float64  `json:"entry"`
	TP1       float64  `json:"tp1"`
	TP2       *float64 `json:"tp2"`
	SL        float64  `json:"sl"`
	Timestamp string   `json:"timestamp"`
	Outcome   *string  `json:"outcome"`
	ClosedAt  *float64 `json:"closed_at"`
	Duration  *int     `json:"duration"`
}

// IsClosed reports whether the signal has an outcome.
func (s Signal) IsClosed() bool {
	return s.Outcome != nil && *s.Outcome != ""
}

// IsWin reports whether the signal closed as a win.
func (s Signal) IsWin() bool {
	return s.IsClosed() && *s.Outcome == OutcomeWin
}

// PairStats is the per-pair entry of GET /api/pairs. Winrate is a 0..1 ratio.
type PairStats struct {
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	Winrate float64 `json:"winrate"`
}

// PairPerformance is the GET /api/pairs payload keyed by pair symbol.
type PairPerformance map[string]PairStats

// WinrateStats is the GET /api/winrate payload. Winrates are percentages.
type WinrateStats struct {
	Winrate         float64 `json:"winrate"`
	TotalTrades     int     `json:"total_trades"`
	AvgDurationMins float64 `json:"avg_duration_mins"`
	RecentWinStreak int     `json:"recent_win_streak"`
	WeightedWinrate float64 `json:"weighted_winrate"`
	Error           string  `json:"error,omitempty"`
}
