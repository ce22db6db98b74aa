package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/salesdash/internal/compare"
	"github.com/sells-group/salesdash/internal/model"
)

func TestGenerate_SuccessAndWarning(t *testing.T) {
	t.Parallel()

	comps := []model.Comparison{
		compare.Metric(compare.MetricGrossRevenue, 150000, 100000, model.UpIsGood), // +50% favorable
		compare.Metric(compare.MetricShowRate, 60, 50, model.UpIsGood),             // +20% favorable, smaller
		compare.Metric(compare.MetricNoShows, 15, 10, model.DownIsGood),            // +50% unfavorable
	}

	insights := Generate(comps)
	require.Len(t, insights, 2)

	assert.Equal(t, model.InsightSuccess, insights[0].Kind)
	assert.Equal(t, compare.MetricGrossRevenue, insights[0].Metric)
	assert.Contains(t, insights[0].Message, "gross revenue")
	assert.Contains(t, insights[0].Message, "50.0%")

	assert.Equal(t, model.InsightWarning, insights[1].Kind)
	assert.Equal(t, compare.MetricNoShows, insights[1].Metric)
}

func TestGenerate_BelowThreshold(t *testing.T) {
	t.Parallel()

	// 5% moves never clear the 10% gate.
	comps := []model.Comparison{
		compare.Metric(compare.MetricGrossRevenue, 105000, 100000, model.UpIsGood),
		compare.Metric(compare.MetricNoShows, 105, 100, model.DownIsGood),
	}
	assert.Empty(t, Generate(comps))
}

func TestGenerate_GoalProgressSwing(t *testing.T) {
	t.Parallel()

	comps := []model.Comparison{
		compare.Metric(compare.MetricGoalProgress, 85, 60, model.UpIsGood),
	}
	insights := Generate(comps)
	require.NotEmpty(t, insights)

	var goalInsight *model.Insight
	for i := range insights {
		if insights[i].Metric == compare.MetricGoalProgress && insights[i].Kind == model.InsightInfo {
			goalInsight = &insights[i]
		}
	}
	require.NotNil(t, goalInsight)
	assert.Equal(t, model.PriorityMedium, goalInsight.Priority)
	assert.Contains(t, goalInsight.Message, "accelerated")
	assert.Contains(t, goalInsight.Message, "25.0 points")
}

func TestGenerate_Deceleration(t *testing.T) {
	t.Parallel()

	comps := []model.Comparison{
		compare.Metric(compare.MetricGoalProgress, 40, 60, model.UpIsGood),
	}
	insights := Generate(comps)

	found := false
	for _, in := range insights {
		if in.Kind == model.InsightInfo {
			assert.Contains(t, in.Message, "decelerated")
			found = true
		}
	}
	assert.True(t, found)
}

func TestGenerate_PrioritySortIsStable(t *testing.T) {
	t.Parallel()

	comps := []model.Comparison{
		compare.Metric(compare.MetricGrossRevenue, 200000, 100000, model.UpIsGood),
		compare.Metric(compare.MetricNoShows, 20, 10, model.DownIsGood),
		compare.Metric(compare.MetricGoalProgress, 90, 50, model.UpIsGood),
	}
	insights := Generate(comps)
	require.GreaterOrEqual(t, len(insights), 3)

	// High before medium; success generated before warning stays first.
	assert.Equal(t, model.PriorityHigh, insights[0].Priority)
	assert.Equal(t, model.InsightSuccess, insights[0].Kind)
	assert.Equal(t, model.InsightWarning, insights[1].Kind)
	assert.Equal(t, model.PriorityMedium, insights[2].Priority)

	for i := 1; i < len(insights); i++ {
		assert.LessOrEqual(t, insights[i-1].Priority, insights[i].Priority)
	}
}

func TestGenerate_Cap(t *testing.T) {
	t.Parallel()

	// The generator never surfaces more than 5 insights regardless of how
	// many rules fire.
	comps := []model.Comparison{
		compare.Metric(compare.MetricGrossRevenue, 200000, 100000, model.UpIsGood),
		compare.Metric(compare.MetricNoShows, 20, 10, model.DownIsGood),
		compare.Metric(compare.MetricGoalProgress, 90, 50, model.UpIsGood),
	}
	insights := Generate(comps)
	assert.LessOrEqual(t, len(insights), 5)
}
