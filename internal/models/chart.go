package models

// ChartRequest is the payload of the bar, line and pie charts. Labels and
// Values are expected to have the same length.
type ChartRequest struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ComparisonDataset is one series of a comparison (radar) chart.
type ComparisonDataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ComparisonRequest is the payload of the radar chart. Every dataset carries
// one value per metric.
type ComparisonRequest struct {
	Metrics  []string            `json:"metrics"`
	Datasets []ComparisonDataset `json:"datasets"`
}
