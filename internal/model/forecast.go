package model

// ScenarioKind names one of the three projection scenarios.
type ScenarioKind string

const (
	ScenarioPessimistic ScenarioKind = "pessimistic"
	ScenarioRealistic   ScenarioKind = "realistic"
	ScenarioOptimistic  ScenarioKind = "optimistic"
)

// Scenario is one end-of-period extrapolation. ProbabilityPct is fixed
// display metadata (a UX convention, not a forecast confidence interval).
type Scenario struct {
	Kind               ScenarioKind `json:"kind"`
	RunRateMultiplier  float64      `json:"run_rate_multiplier"`
	ProjectedTotal     float64      `json:"projected_total"`
	WillMeetTarget     bool         `json:"will_meet_target"`
	ProbabilityPct     int          `json:"probability_pct"`
}

// ScenarioProjection extrapolates a period's run-rate into three scenarios
// for one entity.
type ScenarioProjection struct {
	Entity        string   `json:"entity,omitempty"`
	PeriodKey     string   `json:"period_key,omitempty"`
	RevenueToDate float64  `json:"revenue_to_date"`
	DailyRunRate  float64  `json:"daily_run_rate"`
	DaysElapsed   int      `json:"days_elapsed"`
	DaysRemaining int      `json:"days_remaining"`
	Target        float64  `json:"target"`
	Pessimistic   Scenario `json:"pessimistic"`
	Realistic     Scenario `json:"realistic"`
	Optimistic    Scenario `json:"optimistic"`
}
