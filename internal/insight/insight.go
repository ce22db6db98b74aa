// Package insight turns period comparisons into ranked, human-readable
// alerts. Rules run in a fixed order; output is capped and sorted by
// priority with generation order preserved inside each priority.
package insight

import (
	"fmt"
	"math"
	"sort"

	"github.com/sells-group/salesdash/internal/compare"
	"github.com/sells-group/salesdash/internal/model"
)

const (
	// deltaThresholdPct gates the success/warning rules.
	deltaThresholdPct = 10.0
	// goalSwingPct gates the goal-progress acceleration rule.
	goalSwingPct = 10.0
	// maxInsights caps how many alerts the dashboard surfaces.
	maxInsights = 5
)

// Generate evaluates the rule set against a comparison list.
func Generate(comparisons []model.Comparison) []model.Insight {
	var insights []model.Insight

	if c, ok := largest(comparisons, true); ok {
		insights = append(insights, model.Insight{
			Kind:     model.InsightSuccess,
			Priority: model.PriorityHigh,
			Metric:   c.Metric,
			Message:  fmt.Sprintf("%s improved %.1f%% over the previous period", label(c.Metric), math.Abs(c.DeltaPct)),
		})
	}

	if c, ok := largest(comparisons, false); ok {
		insights = append(insights, model.Insight{
			Kind:     model.InsightWarning,
			Priority: model.PriorityHigh,
			Metric:   c.Metric,
			Message:  fmt.Sprintf("%s worsened %.1f%% against the previous period", label(c.Metric), math.Abs(c.DeltaPct)),
		})
	}

	for _, c := range comparisons {
		if c.Metric != compare.MetricGoalProgress {
			continue
		}
		swing := c.Current - c.Previous
		if math.Abs(swing) < goalSwingPct {
			continue
		}
		verb := "accelerated"
		if swing < 0 {
			verb = "decelerated"
		}
		insights = append(insights, model.Insight{
			Kind:     model.InsightInfo,
			Priority: model.PriorityMedium,
			Metric:   c.Metric,
			Message:  fmt.Sprintf("goal progress %s by %.1f points", verb, math.Abs(swing)),
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority < insights[j].Priority
	})
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// largest finds the comparison with the biggest |deltaPct| above the
// threshold among favorable (or unfavorable) non-stable moves.
func largest(comparisons []model.Comparison, favorable bool) (model.Comparison, bool) {
	var best model.Comparison
	found := false
	for _, c := range comparisons {
		if c.Trend == model.TrendStable || c.IsFavorable != favorable {
			continue
		}
		if math.Abs(c.DeltaPct) <= deltaThresholdPct {
			continue
		}
		if !found || math.Abs(c.DeltaPct) > math.Abs(best.DeltaPct) {
			best, found = c, true
		}
	}
	return best, found
}

var labels = map[string]string{
	compare.MetricGrossRevenue:   "gross revenue",
	compare.MetricSignedRevenue:  "signed revenue",
	compare.MetricPaidRevenue:    "paid revenue",
	compare.MetricAverageTicket:  "average ticket",
	compare.MetricAgreedCalls:    "scheduled calls",
	compare.MetricShowRate:       "show rate",
	compare.MetricConversionRate: "conversion rate",
	compare.MetricNoShows:        "no-shows",
	compare.MetricGoalProgress:   "goal progress",
}

func label(metric string) string {
	if l, ok := labels[metric]; ok {
		return l
	}
	return metric
}
