// Package roster maps free-text names from raw activity rows onto canonical
// people and squads. Squad membership is versioned by period: the same
// person can sit in different squads in different months, so every lookup is
// parameterized by period key.
package roster

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/salesdash/internal/model"
)

// Membership is the classification result for one raw name.
type Membership struct {
	Person  model.Person
	SquadID string
}

// memberSpec is the yaml shape of one roster member.
type memberSpec struct {
	DisplayName   string   `yaml:"display_name"`
	CanonicalName string   `yaml:"canonical_name"`
	Role          string   `yaml:"role"`
	Aliases       []string `yaml:"aliases"`
}

// squadSpec is the yaml shape of one squad in one period.
type squadSpec struct {
	ID            string       `yaml:"id"`
	DisplayName   string       `yaml:"display_name"`
	Color         string       `yaml:"color"`
	MonthlyTarget float64      `yaml:"monthly_target"`
	Members       []memberSpec `yaml:"members"`
}

// fileSpec is the yaml shape of the whole roster file.
type fileSpec struct {
	Periods map[string]struct {
		Squads []squadSpec `yaml:"squads"`
	} `yaml:"periods"`
}

// snapshot is the indexed roster for one period.
type snapshot struct {
	squads  []model.Squad
	people  []model.Person
	byAlias map[string]Membership
}

// Roster is an immutable, period-indexed set of squad snapshots.
type Roster struct {
	snapshots map[string]*snapshot
	keys      []string // sorted period keys
}

// Load reads a roster yaml file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: read file")
	}
	return Parse(data)
}

// Parse builds a Roster from yaml bytes.
func Parse(data []byte) (*Roster, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, eris.Wrap(err, "roster: unmarshal yaml")
	}
	if len(spec.Periods) == 0 {
		return nil, eris.New("roster: no periods defined")
	}

	r := &Roster{snapshots: make(map[string]*snapshot, len(spec.Periods))}
	for key, p := range spec.Periods {
		snap := &snapshot{byAlias: make(map[string]Membership)}
		for _, sq := range p.Squads {
			squad := model.Squad{
				ID:            sq.ID,
				DisplayName:   sq.DisplayName,
				Color:         sq.Color,
				MonthlyTarget: sq.MonthlyTarget,
			}
			for _, m := range sq.Members {
				canonical := m.CanonicalName
				if canonical == "" {
					canonical = Fold(m.DisplayName)
				}
				person := model.Person{
					DisplayName:   m.DisplayName,
					CanonicalName: canonical,
					Role:          model.Role(m.Role),
					SquadID:       sq.ID,
				}
				squad.MemberIDs = append(squad.MemberIDs, canonical)
				snap.people = append(snap.people, person)

				membership := Membership{Person: person, SquadID: sq.ID}
				snap.byAlias[Fold(m.DisplayName)] = membership
				snap.byAlias[Fold(canonical)] = membership
				for _, alias := range m.Aliases {
					snap.byAlias[Fold(alias)] = membership
				}
			}
			snap.squads = append(snap.squads, squad)
		}
		r.snapshots[key] = snap
		r.keys = append(r.keys, key)
	}
	sort.Strings(r.keys)

	return r, nil
}

// Classify resolves a raw name against the roster for the given period.
// Matching is case-, accent-, and whitespace-insensitive and tolerates the
// raw text containing extra words around a known alias. Unknown names
// return ok=false; callers bucket them under model.UnassignedSquad so
// totals still reconcile.
func (r *Roster) Classify(periodKey, rawName string) (Membership, bool) {
	snap := r.snapshot(periodKey)
	if snap == nil {
		return Membership{}, false
	}

	folded := Fold(rawName)
	if folded == "" {
		return Membership{}, false
	}
	if m, ok := snap.byAlias[folded]; ok {
		return m, true
	}

	// Substring-tolerant pass: "joao alves (ferias)" still matches the
	// "joao alves" alias. Longest alias wins to avoid first-name collisions.
	var best Membership
	bestLen := 0
	for alias, m := range snap.byAlias {
		if len(alias) > bestLen && containsWord(folded, alias) {
			best, bestLen = m, len(alias)
		}
	}
	if bestLen > 0 {
		return best, true
	}
	return Membership{}, false
}

// Squads returns the squads defined for a period, sorted by ID.
func (r *Roster) Squads(periodKey string) []model.Squad {
	snap := r.snapshot(periodKey)
	if snap == nil {
		return nil
	}
	out := make([]model.Squad, len(snap.squads))
	copy(out, snap.squads)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// People returns all people rostered for a period, sorted by canonical name.
func (r *Roster) People(periodKey string) []model.Person {
	snap := r.snapshot(periodKey)
	if snap == nil {
		return nil
	}
	out := make([]model.Person, len(snap.people))
	copy(out, snap.people)
	sort.Slice(out, func(i, j int) bool { return out[i].CanonicalName < out[j].CanonicalName })
	return out
}

// snapshot selects the roster for a period, falling back to the most recent
// defined period at or before the requested one, then to the latest overall.
// Roster data is never allowed to vanish just because a month is missing.
func (r *Roster) snapshot(periodKey string) *snapshot {
	if snap, ok := r.snapshots[periodKey]; ok {
		return snap
	}
	if len(r.keys) == 0 {
		return nil
	}
	best := ""
	for _, k := range r.keys {
		if k <= periodKey {
			best = k
		}
	}
	if best == "" {
		best = r.keys[len(r.keys)-1]
	}
	return r.snapshots[best]
}

// containsWord reports whether haystack contains needle on word boundaries.
func containsWord(haystack, needle string) bool {
	idx := strings.Index(haystack, needle)
	for idx >= 0 {
		before := idx == 0 || haystack[idx-1] == ' '
		end := idx + len(needle)
		after := end == len(haystack) || haystack[end] == ' '
		if before && after {
			return true
		}
		next := strings.Index(haystack[idx+1:], needle)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}
