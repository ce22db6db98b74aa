// Package forecast extrapolates a period's revenue run-rate into
// pessimistic, realistic, and optimistic end-of-period projections.
package forecast

import (
	"time"

	"github.com/sells-group/salesdash/internal/model"
)

// Run-rate multipliers per scenario. The probability weights are display
// metadata only, a UX convention carried through to the dashboard.
const (
	pessimisticMul = 0.7
	realisticMul   = 1.0
	optimisticMul  = 1.3

	pessimisticProb = 30
	realisticProb   = 50
	optimisticProb  = 20
)

// Project extrapolates revenue-to-date into three scenarios. The daily
// run-rate is revenueToDate/daysElapsed, 0 when nothing has elapsed.
// For non-negative run-rates the scenario totals are always ordered
// pessimistic ≤ realistic ≤ optimistic.
func Project(revenueToDate float64, daysElapsed, daysRemaining int, target float64) model.ScenarioProjection {
	runRate := 0.0
	if daysElapsed > 0 {
		runRate = revenueToDate / float64(daysElapsed)
	}

	p := model.ScenarioProjection{
		RevenueToDate: revenueToDate,
		DailyRunRate:  runRate,
		DaysElapsed:   daysElapsed,
		DaysRemaining: daysRemaining,
		Target:        target,
	}
	p.Pessimistic = scenario(model.ScenarioPessimistic, pessimisticMul, pessimisticProb, p)
	p.Realistic = scenario(model.ScenarioRealistic, realisticMul, realisticProb, p)
	p.Optimistic = scenario(model.ScenarioOptimistic, optimisticMul, optimisticProb, p)
	return p
}

// ProjectPeriod derives elapsed/remaining days from the period as of now
// and projects a metric set's gross revenue against a target.
func ProjectPeriod(set model.MetricSet, period model.Period, target float64, now time.Time) model.ScenarioProjection {
	elapsed, remaining := period.Elapsed(now)
	p := Project(set.GrossRevenue, elapsed, remaining, target)
	p.Entity = set.Entity
	p.PeriodKey = period.Key
	return p
}

func scenario(kind model.ScenarioKind, mul float64, prob int, p model.ScenarioProjection) model.Scenario {
	total := p.RevenueToDate + p.DailyRunRate*mul*float64(p.DaysRemaining)
	return model.Scenario{
		Kind:              kind,
		RunRateMultiplier: mul,
		ProjectedTotal:    total,
		WillMeetTarget:    total >= p.Target,
		ProbabilityPct:    prob,
	}
}
