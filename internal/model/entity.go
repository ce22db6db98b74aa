package model

// Role distinguishes the two sales roles.
type Role string

const (
	RoleProspector Role = "prospector"
	RoleCloser     Role = "closer"
)

// UnassignedSquad is the sentinel bucket for names the roster cannot
// classify. Keeping them in a real bucket (instead of dropping them) is what
// makes squad totals reconcile against the grand total.
const UnassignedSquad = "unassigned"

// Person is a canonical sales identity.
type Person struct {
	DisplayName   string `json:"display_name" yaml:"display_name"`
	CanonicalName string `json:"canonical_name" yaml:"canonical_name"`
	Role          Role   `json:"role" yaml:"role"`
	SquadID       string `json:"squad_id,omitempty" yaml:"squad_id,omitempty"`
}

// Squad is a named team of prospectors and closers with its own target.
// MemberIDs are ordered for display only; the first member is not special.
type Squad struct {
	ID            string   `json:"id" yaml:"id"`
	DisplayName   string   `json:"display_name" yaml:"display_name"`
	Color         string   `json:"color,omitempty" yaml:"color,omitempty"`
	MemberIDs     []string `json:"member_ids" yaml:"member_ids"`
	MonthlyTarget float64  `json:"monthly_target" yaml:"monthly_target"`
}
