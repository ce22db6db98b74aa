package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/roster"
)

const testRoster = `
periods:
  "2026-08":
    squads:
      - id: alpha
        display_name: Squad Alpha
        monthly_target: 650000
        members:
          - display_name: João Álves
            canonical_name: joao-alves
            role: prospector
          - display_name: Maria Souza
            canonical_name: maria-souza
            role: closer
`

func testCalculator(t *testing.T) *Calculator {
	t.Helper()
	r, err := roster.Parse([]byte(testRoster))
	require.NoError(t, err)
	return NewCalculator(r)
}

func datePtr(day int) *time.Time {
	t := time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// closerScenario builds 40 records for one closer: 30 qualified, 9 won with
// a fixed price list (one unsigned, one signed-unpaid, seven signed-paid),
// 35 realized, 5 no-shows.
func closerScenario() []model.ActivityRecord {
	prices := []float64{10000, 12000, 8000, 15000, 9000, 11000, 13000, 7000, 14000}

	records := make([]model.ActivityRecord, 0, 40)
	for i := 0; i < 40; i++ {
		rec := model.ActivityRecord{
			CloserName:  "Maria Souza",
			ScheduledAt: datePtr(1 + i%28),
			Qualified:   model.QualifiedNo,
			DealStatus:  model.DealOpen,
		}
		if i < 30 {
			rec.Qualified = model.QualifiedYes
		}
		if i < 35 {
			rec.RealizedAt = datePtr(2 + i%27)
		} else {
			rec.NoShow = true
		}
		if i < 9 {
			rec.DealStatus = model.DealWon
			rec.ContractValue = prices[i]
			rec.Signed = i != 0       // record 0: won but unsigned
			rec.Paid = i != 0 && i != 1 // record 1: signed but unpaid
		}
		records = append(records, rec)
	}
	return records
}

func TestEntity_CloserScenario(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)
	period := model.MonthPeriod(2026, time.August)

	closer := model.Person{CanonicalName: "maria-souza", Role: model.RoleCloser}
	set := calc.Entity(closerScenario(), closer, period)

	assert.Equal(t, 40, set.Agreed)
	assert.Equal(t, 35, set.Realized)
	assert.Equal(t, 5, set.NoShows)
	assert.Equal(t, 30, set.Qualified)
	assert.Equal(t, 9, set.Won)

	assert.InDelta(t, 99000, set.GrossRevenue, 0.001)
	assert.InDelta(t, 89000, set.SignedRevenue, 0.001)
	assert.InDelta(t, 77000, set.PaidRevenue, 0.001)
	assert.InDelta(t, 99000.0/9, set.AverageTicket, 0.001)

	assert.InDelta(t, 100*35.0/40, set.ShowRate, 0.001)
	assert.InDelta(t, 100*30.0/40, set.QualificationRate, 0.001)
	assert.InDelta(t, 100*9.0/30, set.ConversionRate, 0.001)
	assert.InDelta(t, 100*8.0/9, set.SignatureRate, 0.001)
	assert.InDelta(t, 100*7.0/9, set.PaymentRate, 0.001)
}

func TestEntity_RoleSelectsIdentityField(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)
	period := model.MonthPeriod(2026, time.August)

	// SDR originates, a different closer closes: same contract feeds the
	// SDR's funnel counts and the closer's revenue.
	records := []model.ActivityRecord{{
		ProspectorName: "João Álves",
		CloserName:     "Maria Souza",
		ScheduledAt:    datePtr(5),
		RealizedAt:     datePtr(6),
		Qualified:      model.QualifiedYes,
		DealStatus:     model.DealWon,
		ContractValue:  20000,
		Signed:         true,
		Paid:           true,
	}}

	sdr := calc.Entity(records, model.Person{CanonicalName: "joao-alves", Role: model.RoleProspector}, period)
	assert.Equal(t, 1, sdr.Agreed)
	assert.Equal(t, 1, sdr.Qualified)

	closer := calc.Entity(records, model.Person{CanonicalName: "maria-souza", Role: model.RoleCloser}, period)
	assert.Equal(t, 1, closer.Won)
	assert.InDelta(t, 20000, closer.GrossRevenue, 0.001)
}

func TestEntity_ZeroDenominators(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)
	period := model.MonthPeriod(2026, time.August)

	set := calc.Entity(nil, model.Person{CanonicalName: "maria-souza", Role: model.RoleCloser}, period)
	assert.Zero(t, set.ShowRate)
	assert.Zero(t, set.QualificationRate)
	assert.Zero(t, set.ConversionRate)
	assert.Zero(t, set.SignatureRate)
	assert.Zero(t, set.PaymentRate)
	assert.Zero(t, set.AverageTicket)
}

func TestEntity_NilDatePassesFilter(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)
	period := model.MonthPeriod(2026, time.August)

	// Malformed date cell → nil ScheduledAt → record still counted.
	records := []model.ActivityRecord{{
		CloserName: "Maria Souza",
		Qualified:  model.QualifiedYes,
	}}
	set := calc.Entity(records, model.Person{CanonicalName: "maria-souza", Role: model.RoleCloser}, period)
	assert.Equal(t, 1, set.Agreed)
}

func TestEntity_PaidWithoutSigned(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)
	period := model.MonthPeriod(2026, time.August)

	records := []model.ActivityRecord{{
		CloserName:    "Maria Souza",
		ScheduledAt:   datePtr(3),
		DealStatus:    model.DealWon,
		ContractValue: 5000,
		Paid:          true, // contradiction: paid but never signed
	}}
	set := calc.Entity(records, model.Person{CanonicalName: "maria-souza", Role: model.RoleCloser}, period)

	assert.InDelta(t, 5000, set.GrossRevenue, 0.001)
	assert.InDelta(t, 0, set.SignedRevenue, 0.001)
	assert.InDelta(t, 5000, set.PaidRevenue, 0.001)
}

func TestEntity_Idempotent(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)
	period := model.MonthPeriod(2026, time.August)
	records := closerScenario()
	closer := model.Person{CanonicalName: "maria-souza", Role: model.RoleCloser}

	first := calc.Entity(records, closer, period)
	second := calc.Entity(records, closer, period)
	assert.Equal(t, first, second)
}

func TestTotal(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)
	period := model.MonthPeriod(2026, time.August)

	set := calc.Total(closerScenario(), period)
	assert.Equal(t, 40, set.Agreed)
	assert.InDelta(t, 99000, set.GrossRevenue, 0.001)

	// Records outside the period are excluded.
	outside := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	set = calc.Total([]model.ActivityRecord{{ScheduledAt: &outside}}, period)
	assert.Zero(t, set.Agreed)
}
