// Package squad rolls per-entity metrics up into squad metric sets,
// selects the period MVP, and assigns head-to-head badges.
//
// Attribution is single-counted so totals reconcile: funnel counts follow
// the scheduling SDR's squad, revenue follows the closing closer's squad.
// A deal originated in one squad and closed in another splits accordingly.
package squad

import (
	"sort"

	"github.com/sells-group/salesdash/internal/goal"
	"github.com/sells-group/salesdash/internal/metrics"
	"github.com/sells-group/salesdash/internal/model"
	"github.com/sells-group/salesdash/internal/roster"
)

// Aggregator computes squad-level metrics.
type Aggregator struct {
	roster *roster.Roster
	calc   *metrics.Calculator
}

// NewAggregator creates an Aggregator over the given roster.
func NewAggregator(r *roster.Roster) *Aggregator {
	return &Aggregator{roster: r, calc: metrics.NewCalculator(r)}
}

// Squad computes the metric set for one squad over one period, including
// per-member sets, the MVP, and the averaged member conversion rate.
//
// Rate fields on the embedded MetricSet are recomputed from the squad's own
// summed numerators and denominators, not averaged across members — naive
// averaging distorts squads with uneven volume. AvgMemberConversionRate is
// the one deliberate exception: it is the plain mean of member rates, kept
// as a distinct company-wide figure.
func (a *Aggregator) Squad(records []model.ActivityRecord, squadID string, period model.Period) model.SquadMetrics {
	sm := model.SquadMetrics{SquadID: squadID}
	sm.MetricSet = a.bucket(records, squadID, period)
	sm.Entity = squadID
	sm.PeriodKey = period.Key

	var squadDef model.Squad
	for _, sq := range a.roster.Squads(period.Key) {
		if sq.ID == squadID {
			squadDef = sq
			break
		}
	}
	sm.DisplayName = squadDef.DisplayName
	if squadDef.MonthlyTarget > 0 {
		sm.GoalProgressPct = goal.ProgressPct(sm.GrossRevenue, squadDef.MonthlyTarget)
	}

	var rateSum float64
	for _, p := range a.roster.People(period.Key) {
		if p.SquadID != squadID {
			continue
		}
		member := a.calc.Entity(records, p, period)
		sm.Members = append(sm.Members, member)
		rateSum += member.ConversionRate
	}
	if len(sm.Members) > 0 {
		sm.AvgMemberConversionRate = rateSum / float64(len(sm.Members))
	}
	sm.MVP = selectMVP(sm.Members)

	return sm
}

// Unassigned computes the sentinel bucket for records whose names the
// roster cannot classify. Keeping it makes squad totals reconcile:
// sum(squads) + unassigned == grand total.
func (a *Aggregator) Unassigned(records []model.ActivityRecord, period model.Period) model.MetricSet {
	set := a.bucket(records, model.UnassignedSquad, period)
	set.Entity = model.UnassignedSquad
	set.PeriodKey = period.Key
	return set
}

// All computes every squad defined for the period, sorted by squad ID.
func (a *Aggregator) All(records []model.ActivityRecord, period model.Period) []model.SquadMetrics {
	squads := a.roster.Squads(period.Key)
	out := make([]model.SquadMetrics, 0, len(squads))
	for _, sq := range squads {
		out = append(out, a.Squad(records, sq.ID, period))
	}
	return out
}

// bucket accumulates the records attributed to one squad ID (or the
// unassigned sentinel) and recomputes all rates from the summed counts.
func (a *Aggregator) bucket(records []model.ActivityRecord, squadID string, period model.Period) model.MetricSet {
	var set model.MetricSet
	var signedCount, paidCount int

	for _, r := range records {
		if !period.Contains(r.ScheduledAt) {
			continue
		}

		if a.squadOf(period.Key, r.ProspectorName, r.CloserName) == squadID {
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
		}

		if !r.Won() {
			continue
		}
		if a.squadOf(period.Key, r.CloserName, r.ProspectorName) != squadID {
			continue
		}
		set.Won++
		set.GrossRevenue += r.ContractValue
		if r.Signed {
			signedCount++
			set.SignedRevenue += r.ContractValue
		}
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

// squadOf resolves the squad owning a record through its primary identity
// name, falling back to the secondary name when the primary is absent.
// Unresolvable names land in the unassigned bucket.
func (a *Aggregator) squadOf(periodKey, primary, secondary string) string {
	name := primary
	if name == "" {
		name = secondary
	}
	if m, ok := a.roster.Classify(periodKey, name); ok {
		return m.SquadID
	}
	return model.UnassignedSquad
}

// selectMVP picks the member with the highest gross revenue; ties break by
// earliest canonical-name lexical order so the result is deterministic.
func selectMVP(members []model.MetricSet) string {
	best := ""
	bestRevenue := 0.0
	for _, m := range members {
		switch {
		case m.GrossRevenue > bestRevenue:
			best, bestRevenue = m.Entity, m.GrossRevenue
		case m.GrossRevenue == bestRevenue && bestRevenue > 0 && (best == "" || m.Entity < best):
			best = m.Entity
		}
	}
	return best
}

// AssignBadges runs the six independent head-to-head comparisons between
// exactly two squads and writes the winners' badge lists. An exact tie
// awards no badge for that dimension; a squad may end up with zero, some,
// or all badges.
func AssignBadges(a, b *model.SquadMetrics) {
	a.Badges = nil
	b.Badges = nil

	award := func(badge model.Badge, av, bv float64) {
		switch {
		case av > bv:
			a.Badges = append(a.Badges, badge)
		case bv > av:
			b.Badges = append(b.Badges, badge)
		}
	}

	award(model.BadgeHighestRevenue, a.GrossRevenue, b.GrossRevenue)
	award(model.BadgeHighestTicket, a.AverageTicket, b.AverageTicket)
	award(model.BadgeBestConversion, a.ConversionRate, b.ConversionRate)
	award(model.BadgeBestShowRate, a.ShowRate, b.ShowRate)
	award(model.BadgeMostCalls, float64(a.Agreed), float64(b.Agreed))

	aMet := a.GoalProgressPct >= 100
	bMet := b.GoalProgressPct >= 100
	switch {
	case aMet && !bMet:
		a.Badges = append(a.Badges, model.BadgeTargetMet)
	case bMet && !aMet:
		b.Badges = append(b.Badges, model.BadgeTargetMet)
	}

	sortBadges(a.Badges)
	sortBadges(b.Badges)
}

func sortBadges(badges []model.Badge) {
	sort.Slice(badges, func(i, j int) bool { return badges[i] < badges[j] })
}
