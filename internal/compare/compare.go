// Package compare diffs two independently computed metric sets and
// classifies each metric's trend and favorability.
package compare

import (
	"math"

	"github.com/sells-group/salesdash/internal/model"
)

// hysteresis is the stable band: a relative move of 2% or less of the
// previous value classifies as stable, which stops trends flapping on
// noise between refreshes.
const hysteresis = 0.02

// Metric diffs one value pair. DeltaPct against a zero previous value is
// defined as 100 when the metric appeared and 0 when it stayed absent —
// never a division failure. Favorability follows the declared direction.
func Metric(name string, current, previous float64, dir model.Direction) model.Comparison {
	c := model.Comparison{
		Metric:    name,
		Current:   current,
		Previous:  previous,
		Delta:     current - previous,
		Direction: dir,
	}

	if previous == 0 {
		if current > 0 {
			c.DeltaPct = 100
		}
	} else {
		c.DeltaPct = c.Delta / previous * 100
	}

	c.Trend = classifyTrend(c.Delta, previous)
	switch c.Trend {
	case model.TrendUp:
		c.IsFavorable = dir == model.UpIsGood
	case model.TrendDown:
		c.IsFavorable = dir == model.DownIsGood
	case model.TrendStable:
		c.IsFavorable = true
	}

	return c
}

func classifyTrend(delta, previous float64) model.Trend {
	if previous != 0 {
		if math.Abs(delta/previous) <= hysteresis {
			return model.TrendStable
		}
	} else if delta == 0 {
		return model.TrendStable
	}
	if delta > 0 {
		return model.TrendUp
	}
	return model.TrendDown
}

// Standard dashboard metric names.
const (
	MetricGrossRevenue   = "gross_revenue"
	MetricSignedRevenue  = "signed_revenue"
	MetricPaidRevenue    = "paid_revenue"
	MetricAverageTicket  = "average_ticket"
	MetricAgreedCalls    = "agreed_calls"
	MetricShowRate       = "show_rate"
	MetricConversionRate = "conversion_rate"
	MetricNoShows        = "no_shows"
	MetricGoalProgress   = "goal_progress"
)

// Sets produces the standard comparison list between two metric sets.
// Directions are declared per metric: no-shows going down is favorable,
// everything else is up-is-good.
func Sets(current, previous model.MetricSet) []model.Comparison {
	return []model.Comparison{
		Metric(MetricGrossRevenue, current.GrossRevenue, previous.GrossRevenue, model.UpIsGood),
		Metric(MetricSignedRevenue, current.SignedRevenue, previous.SignedRevenue, model.UpIsGood),
		Metric(MetricPaidRevenue, current.PaidRevenue, previous.PaidRevenue, model.UpIsGood),
		Metric(MetricAverageTicket, current.AverageTicket, previous.AverageTicket, model.UpIsGood),
		Metric(MetricAgreedCalls, float64(current.Agreed), float64(previous.Agreed), model.UpIsGood),
		Metric(MetricShowRate, current.ShowRate, previous.ShowRate, model.UpIsGood),
		Metric(MetricConversionRate, current.ConversionRate, previous.ConversionRate, model.UpIsGood),
		Metric(MetricNoShows, float64(current.NoShows), float64(previous.NoShows), model.DownIsGood),
		Metric(MetricGoalProgress, current.GoalProgressPct, previous.GoalProgressPct, model.UpIsGood),
	}
}
