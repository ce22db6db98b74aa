// Package goal holds period-keyed target configuration and the progress
// computation against it.
package goal

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultBusinessDays is the fixed business-day divisor for daily targets.
const DefaultBusinessDays = 22

// Target is the configured goal for one period.
type Target struct {
	MonthlyTarget  float64            `yaml:"monthly_target" json:"monthly_target"`
	PerSquadTarget map[string]float64 `yaml:"per_squad_target,omitempty" json:"per_squad_target,omitempty"`
	TargetModel    string             `yaml:"target_model,omitempty" json:"target_model,omitempty"`
}

// WeeklyTarget derives the weekly target. The divisor is a fixed 4 by
// business convention, not calendar-accurate.
func (t Target) WeeklyTarget() float64 {
	return t.MonthlyTarget / 4
}

// DailyTarget derives the daily target from a business-day count.
// Non-positive counts fall back to the default of 22.
func (t Target) DailyTarget(businessDays int) float64 {
	if businessDays <= 0 {
		businessDays = DefaultBusinessDays
	}
	return t.MonthlyTarget / float64(businessDays)
}

// SquadTarget returns the squad-specific target when configured, otherwise
// the monthly target split is left to the caller.
func (t Target) SquadTarget(squadID string) (float64, bool) {
	v, ok := t.PerSquadTarget[squadID]
	return v, ok
}

// Book is an immutable period-keyed target configuration snapshot.
type Book struct {
	targets map[string]Target
	keys    []string // sorted
}

// bookSpec is the yaml shape of the goal file.
type bookSpec struct {
	Periods map[string]Target `yaml:"periods"`
}

// LoadBook reads a goal configuration yaml file.
func LoadBook(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "goal: read file")
	}
	return ParseBook(data)
}

// ParseBook builds a Book from yaml bytes. An empty book is a configuration
// error: with no target at all, goal progress would degenerate into a
// division by zero, so the host must be told.
func ParseBook(data []byte) (*Book, error) {
	var spec bookSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, eris.Wrap(err, "goal: unmarshal yaml")
	}
	return NewBook(spec.Periods)
}

// NewBook builds a Book from a period-keyed target map.
func NewBook(targets map[string]Target) (*Book, error) {
	if len(targets) == 0 {
		return nil, eris.New("goal: no target periods configured")
	}
	b := &Book{targets: make(map[string]Target, len(targets))}
	for k, t := range targets {
		b.targets[k] = t
		b.keys = append(b.keys, k)
	}
	sort.Strings(b.keys)
	return b, nil
}

// Target selects the configuration for a period. A period without its own
// entry falls back to the most recent defined period at or before it, then
// to the latest defined overall — never to a zero target.
func (b *Book) Target(periodKey string) Target {
	if t, ok := b.targets[periodKey]; ok {
		return t
	}
	best := ""
	for _, k := range b.keys {
		if k <= periodKey {
			best = k
		}
	}
	if best == "" {
		best = b.keys[len(b.keys)-1]
	}
	return b.targets[best]
}

// ProgressPct returns actual/target as a percentage. Values above 100 are
// valid and meaningful (143% of goal). A non-positive target yields 0.
func ProgressPct(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return actual / target * 100
}
