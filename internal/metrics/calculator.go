// Package metrics computes funnel and revenue metric sets for people,
// squads, and the whole company. Every method is a pure function of its
// inputs: records are never mutated and each call returns a fresh value.
package metrics

import (
	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/roster"
)

// Calculator computes metric sets against a roster.
type Calculator struct {
	roster *roster.Roster
}

// NewCalculator creates a Calculator backed by the given roster.
func NewCalculator(r *roster.Roster) *Calculator {
	return &Calculator{roster: r}
}

// Entity computes the metric set for one person over one period.
//
// The identity field matched depends on the person's role: prospectors own
// the records they scheduled, closers the records they closed. One won
// contract can therefore feed an SDR's funnel counts and a different
// closer's revenue at the same time.
func (c *Calculator) Entity(records []model.ActivityRecord, person model.Person, period model.Period) model.MetricSet {
	set := accumulate(records, period, func(r model.ActivityRecord) bool {
		return c.matches(r, person, period)
	})
	set.Entity = person.CanonicalName
	set.PeriodKey = period.Key
	return set
}

// Total computes the company-wide metric set over one period.
func (c *Calculator) Total(records []model.ActivityRecord, period model.Period) model.MetricSet {
	set := accumulate(records, period, func(model.ActivityRecord) bool { return true })
	set.Entity = "total"
	set.PeriodKey = period.Key
	return set
}

func (c *Calculator) matches(r model.ActivityRecord, person model.Person, period model.Period) bool {
	name := r.ProspectorName
	if person.Role == model.RoleCloser {
		name = r.CloserName
	}
	if name == "" {
		return false
	}
	m, ok := c.roster.Classify(period.Key, name)
	return ok && m.Person.CanonicalName == person.CanonicalName
}

// accumulate walks the record set once and derives all counts, rates, and
// revenue fields. Zero denominators resolve every rate to exactly 0.
func accumulate(records []model.ActivityRecord, period model.Period, match func(model.ActivityRecord) bool) model.MetricSet {
	var set model.MetricSet
	var signedCount, paidCount int

	for _, r := range records {
		if !period.Contains(r.ScheduledAt) || !match(r) {
			continue
		}

		set.Agreed++
		if r.Realized() {
			set.Realized++
		}
		if r.NoShow {
			set.NoShows++
		}
		if r.Qualified == model.QualifiedYes {
			set.Qualified++
		}

		if !r.Won() {
			continue
		}
		set.Won++
		set.GrossRevenue += r.ContractValue
		if r.Signed {
			signedCount++
			set.SignedRevenue += r.ContractValue
		}
		// Paid-without-signed counts toward paid revenue only.
		if r.Paid {
			paidCount++
			set.PaidRevenue += r.ContractValue
		}
	}

	set.ShowRate = model.Rate(set.Realized, set.Agreed)
	set.QualificationRate = model.Rate(set.Qualified, set.Agreed)
	set.ConversionRate = model.Rate(set.Won, set.Qualified)
	set.SignatureRate = model.Rate(signedCount, set.Won)
	set.PaymentRate = model.Rate(paidCount, set.Won)
	if set.Won > 0 {
		set.AverageTicket = set.GrossRevenue / float64(set.Won)
	}

	return set
}
