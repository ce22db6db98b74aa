// Package model defines the core domain types: activity records, people,
// squads, periods, and the computed metric outputs.
package model

import "time"

// Qualified is the tri-state qualification flag on an activity record.
type Qualified string

const (
	QualifiedYes     Qualified = "yes"
	QualifiedNo      Qualified = "no"
	QualifiedUnknown Qualified = "unknown"
)

// DealStatus represents the commercial state of a record's deal.
type DealStatus string

const (
	DealOpen DealStatus = "open"
	DealWon  DealStatus = "won"
	DealLost DealStatus = "lost"
)

// Origin describes how the lead entered the funnel.
type Origin string

const (
	OriginInbound  Origin = "inbound"
	OriginOutbound Origin = "outbound"
	OriginReferral Origin = "referral"
)

// ActivityRecord is one normalized row of raw source data: a prospecting
// call, a scheduled meeting, or a contract.
//
// Paid implies Signed as a business expectation, but raw sources violate it;
// the model does not enforce it and calculators count a paid-unsigned record
// toward paid revenue only.
type ActivityRecord struct {
	ID             string     `json:"id"`
	ProspectorName string     `json:"prospector_name,omitempty"`
	CloserName     string     `json:"closer_name,omitempty"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	RealizedAt     *time.Time `json:"realized_at,omitempty"`
	NoShow         bool       `json:"no_show"`
	Qualified      Qualified  `json:"qualified"`
	DealStatus     DealStatus `json:"deal_status"`
	ContractValue  float64    `json:"contract_value"`
	Signed         bool       `json:"signed"`
	Paid           bool       `json:"paid"`
	Origin         Origin     `json:"origin"`
	Source         string     `json:"source,omitempty"`
}

// Won reports whether the record's deal was won.
func (r ActivityRecord) Won() bool {
	return r.DealStatus == DealWon
}

// Realized reports whether the call actually happened: a realized timestamp
// is present and the record is not flagged as a no-show.
func (r ActivityRecord) Realized() bool {
	return r.RealizedAt != nil && !r.NoShow
}
