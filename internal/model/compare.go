package model

// Trend classifies the direction of a metric between two periods.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Direction declares which way a metric is supposed to move. Revenue and
// conversion are UpIsGood; cost-type metrics are DownIsGood. Favorability is
// a declared property of each metric, never inferred from the delta.
type Direction string

const (
	UpIsGood   Direction = "up_is_good"
	DownIsGood Direction = "down_is_good"
)

// Comparison is the diff of one metric across two independently computed
// metric sets.
type Comparison struct {
	Metric      string    `json:"metric"`
	Current     float64   `json:"current"`
	Previous    float64   `json:"previous"`
	Delta       float64   `json:"delta"`
	DeltaPct    float64   `json:"delta_pct"`
	Trend       Trend     `json:"trend"`
	Direction   Direction `json:"direction"`
	IsFavorable bool      `json:"is_favorable"`
}

// InsightKind classifies an insight.
type InsightKind string

const (
	InsightSuccess InsightKind = "success"
	InsightWarning InsightKind = "warning"
	InsightInfo    InsightKind = "info"
)

// InsightPriority orders insights for display; lower value sorts first.
type InsightPriority int

const (
	PriorityHigh InsightPriority = iota
	PriorityMedium
	PriorityLow
)

// Insight is a human-readable alert derived from period comparisons.
type Insight struct {
	Kind     InsightKind     `json:"kind"`
	Priority InsightPriority `json:"priority"`
	Metric   string          `json:"metric,omitempty"`
	Message  string          `json:"message"`
}
