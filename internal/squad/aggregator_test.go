package squad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/salesdash/internal/metrics"
	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/roster"
)

const testRoster = `
periods:
  "2026-08":
    squads:
      - id: alpha
        display_name: Squad Alpha
        monthly_target: 100000
        members:
          - display_name: João Álves
            canonical_name: joao-alves
            role: prospector
          - display_name: Maria Souza
            canonical_name: maria-souza
            role: closer
      - id: bravo
        display_name: Squad Bravo
        monthly_target: 100000
        members:
          - display_name: Pedro Lima
            canonical_name: pedro-lima
            role: prospector
          - display_name: Ana Costa
            canonical_name: ana-costa
            role: closer
`

func testAggregator(t *testing.T) (*Aggregator, *roster.Roster) {
	t.Helper()
	r, err := roster.Parse([]byte(testRoster))
	require.NoError(t, err)
	return NewAggregator(r), r
}

func datePtr(day int) *time.Time {
	t := time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func won(prospector, closer string, value float64, qualified bool) model.ActivityRecord {
	rec := model.ActivityRecord{
		ProspectorName: prospector,
		CloserName:     closer,
		ScheduledAt:    datePtr(5),
		RealizedAt:     datePtr(6),
		DealStatus:     model.DealWon,
		ContractValue:  value,
		Signed:         true,
		Paid:           true,
	}
	if qualified {
		rec.Qualified = model.QualifiedYes
	}
	return rec
}

func testRecords() []model.ActivityRecord {
	return []model.ActivityRecord{
		won("João Álves", "Maria Souza", 50000, true),
		won("João Álves", "Maria Souza", 30000, true),
		won("Pedro Lima", "Ana Costa", 40000, true),
		// Cross-squad deal: alpha SDR originated, bravo closer closed.
		won("João Álves", "Ana Costa", 20000, true),
		// Unknown closer: revenue lands in the unassigned bucket.
		won("", "Convidado Externo", 10000, false),
		{
			ProspectorName: "João Álves",
			ScheduledAt:    datePtr(10),
			NoShow:         true,
			Qualified:      model.QualifiedNo,
		},
		{
			ProspectorName: "Pedro Lima",
			ScheduledAt:    datePtr(11),
			RealizedAt:     datePtr(11),
			Qualified:      model.QualifiedYes,
		},
	}
}

func TestSquad_RevenueAndRates(t *testing.T) {
	t.Parallel()
	agg, _ := testAggregator(t)
	period := model.MonthPeriod(2026, time.August)

	alpha := agg.Squad(testRecords(), "alpha", period)
	assert.Equal(t, "Squad Alpha", alpha.DisplayName)
	// Maria closed 50k + 30k; the 20k cross-squad deal went to bravo.
	assert.InDelta(t, 80000, alpha.GrossRevenue, 0.001)
	assert.Equal(t, 2, alpha.Won)
	assert.InDelta(t, 40000, alpha.AverageTicket, 0.001)
	// 80k against a 100k target.
	assert.InDelta(t, 80, alpha.GoalProgressPct, 0.001)

	bravo := agg.Squad(testRecords(), "bravo", period)
	assert.InDelta(t, 60000, bravo.GrossRevenue, 0.001)

	// Funnel counts follow the scheduling SDR: João scheduled 4 calls.
	assert.Equal(t, 4, alpha.Agreed)
	assert.Equal(t, 1, alpha.NoShows)
}

func TestSquad_Reconciliation(t *testing.T) {
	t.Parallel()
	agg, r := testAggregator(t)
	period := model.MonthPeriod(2026, time.August)
	records := testRecords()

	total := metrics.NewCalculator(r).Total(records, period)

	var squadSum float64
	for _, sm := range agg.All(records, period) {
		squadSum += sm.GrossRevenue
	}
	unassigned := agg.Unassigned(records, period)

	// sum(squads) + unassigned == grand total, always.
	assert.InDelta(t, total.GrossRevenue, squadSum+unassigned.GrossRevenue, 0.001)
	assert.InDelta(t, 10000, unassigned.GrossRevenue, 0.001)
}

func TestSquad_MVP(t *testing.T) {
	t.Parallel()
	agg, _ := testAggregator(t)
	period := model.MonthPeriod(2026, time.August)

	// João originated 100k (50k + 30k + the 20k cross-squad deal), Maria
	// closed 80k: the SDR's origination revenue wins the period.
	alpha := agg.Squad(testRecords(), "alpha", period)
	assert.Equal(t, "joao-alves", alpha.MVP)
}

func TestSelectMVP_TieBreaksLexically(t *testing.T) {
	t.Parallel()

	members := []model.MetricSet{
		{Entity: "zeca", GrossRevenue: 5000},
		{Entity: "ana", GrossRevenue: 5000},
	}
	assert.Equal(t, "ana", selectMVP(members))

	// No revenue at all: no MVP.
	assert.Empty(t, selectMVP([]model.MetricSet{{Entity: "ana"}, {Entity: "zeca"}}))
}

func TestSquad_AvgMemberConversionDistinctFromRecomputed(t *testing.T) {
	t.Parallel()
	agg, _ := testAggregator(t)
	period := model.MonthPeriod(2026, time.August)

	records := []model.ActivityRecord{
		// Maria: 1 won of 1 qualified → 100%.
		won("", "Maria Souza", 10000, true),
		// João (prospector funnel): 3 qualified, no wins attributed → 0%.
		{ProspectorName: "João Álves", ScheduledAt: datePtr(2), Qualified: model.QualifiedYes},
		{ProspectorName: "João Álves", ScheduledAt: datePtr(3), Qualified: model.QualifiedYes},
		{ProspectorName: "João Álves", ScheduledAt: datePtr(4), Qualified: model.QualifiedYes},
	}

	alpha := agg.Squad(records, "alpha", period)

	// Recomputed from summed counts: 1 won / 4 qualified = 25%.
	assert.InDelta(t, 25, alpha.ConversionRate, 0.001)
	// Averaged member rates: (0 + 100) / 2 = 50%. Deliberately different.
	assert.InDelta(t, 50, alpha.AvgMemberConversionRate, 0.001)
}

func TestAssignBadges(t *testing.T) {
	t.Parallel()

	a := model.SquadMetrics{SquadID: "alpha"}
	a.GrossRevenue = 120000
	a.AverageTicket = 30000
	a.ConversionRate = 40
	a.ShowRate = 80
	a.Agreed = 50
	a.GoalProgressPct = 120

	b := model.SquadMetrics{SquadID: "bravo"}
	b.GrossRevenue = 90000
	b.AverageTicket = 45000
	b.ConversionRate = 40 // exact tie: nobody gets the badge
	b.ShowRate = 70
	b.Agreed = 60
	b.GoalProgressPct = 90

	AssignBadges(&a, &b)

	assert.ElementsMatch(t, []model.Badge{
		model.BadgeHighestRevenue,
		model.BadgeBestShowRate,
		model.BadgeTargetMet,
	}, a.Badges)
	assert.ElementsMatch(t, []model.Badge{
		model.BadgeHighestTicket,
		model.BadgeMostCalls,
	}, b.Badges)
}

func TestAssignBadges_BothMeetTarget(t *testing.T) {
	t.Parallel()

	a := model.SquadMetrics{}
	a.GoalProgressPct = 110
	b := model.SquadMetrics{}
	b.GoalProgressPct = 105

	AssignBadges(&a, &b)
	assert.NotContains(t, a.Badges, model.BadgeTargetMet)
	assert.NotContains(t, b.Badges, model.BadgeTargetMet)
}
