package model

// MetricSet is the computed output for one entity or aggregate over one
// period. Rate fields are percentages in [0,100]; an undefined
// numerator/denominator pair resolves to 0, never NaN. GoalProgressPct is
// unbounded above 100.
type MetricSet struct {
	Entity    string `json:"entity,omitempty"`
	PeriodKey string `json:"period_key,omitempty"`

	// Funnel counts.
	Agreed    int `json:"agreed"`
	Realized  int `json:"realized"`
	NoShows   int `json:"no_shows"`
	Qualified int `json:"qualified"`
	Won       int `json:"won"`

	// Rates (percent).
	ShowRate          float64 `json:"show_rate"`
	QualificationRate float64 `json:"qualification_rate"`
	ConversionRate    float64 `json:"conversion_rate"`
	SignatureRate     float64 `json:"signature_rate"`
	PaymentRate       float64 `json:"payment_rate"`

	// Revenue.
	GrossRevenue  float64 `json:"gross_revenue"`
	SignedRevenue float64 `json:"signed_revenue"`
	PaidRevenue   float64 `json:"paid_revenue"`
	AverageTicket float64 `json:"average_ticket"`

	GoalProgressPct float64 `json:"goal_progress_pct"`
}

// SquadMetrics is a squad's MetricSet plus membership detail, the period
// MVP, and any badges won against the rival squad.
//
// ConversionRate on the embedded MetricSet is recomputed from the squad's
// own summed numerators/denominators. AvgMemberConversionRate is the plain
// mean of per-member rates; both figures are deliberate, distinct business
// definitions and must not be unified.
type SquadMetrics struct {
	MetricSet

	SquadID                 string      `json:"squad_id"`
	DisplayName             string      `json:"display_name"`
	Members                 []MetricSet `json:"members"`
	MVP                     string      `json:"mvp,omitempty"`
	Badges                  []Badge     `json:"badges,omitempty"`
	AvgMemberConversionRate float64     `json:"avg_member_conversion_rate"`
}

// Badge is one dimension a squad can win against the other squad.
type Badge string

const (
	BadgeHighestRevenue Badge = "highest_revenue"
	BadgeHighestTicket  Badge = "highest_ticket"
	BadgeBestConversion Badge = "best_conversion"
	BadgeBestShowRate   Badge = "best_show_rate"
	BadgeMostCalls      Badge = "most_calls"
	BadgeTargetMet      Badge = "target_met"
)

// Rate converts a numerator/denominator pair into a percentage.
// A zero denominator yields exactly 0 by contract.
func Rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
