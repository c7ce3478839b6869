package strategy

import (
	"fmt"

	"github.com/derekprior/lineup/internal/formation"
	"github.com/derekprior/lineup/internal/roster"
)

// Candidate is a pool player with the multiplier the ledger assigned them
// for this period.
type Candidate struct {
	Player     roster.Player
	Multiplier float64
}

// Score is position fitness weighted by playing-time need.
func (c Candidate) Score(pos roster.Position) float64 {
	return c.Player.Fitness(pos) * c.Multiplier
}

// Strategy fills formation slots from a pool of candidates.
//
// The pool arrives in ledger priority order, so on equal scores the
// candidate with the lower index wins. Fill returns, for each template slot,
// the pool index of the assigned candidate or -1 when the slot is left open.
type Strategy interface {
	Name() string
	Fill(tmpl formation.Template, pool []Candidate) []int
}

const (
	SkillFirstName       = "skill_first"
	PreferenceFirstName  = "preference_first"
	BalancedRotationName = "balanced_rotation"
)

// Names lists the registered strategies in variant order.
func Names() []string {
	return []string{SkillFirstName, PreferenceFirstName, BalancedRotationName}
}

// Get returns a Strategy by name.
func Get(name string) (Strategy, error) {
	switch name {
	case SkillFirstName, "":
		return &SkillFirst{}, nil
	case PreferenceFirstName:
		return &PreferenceFirst{}, nil
	case BalancedRotationName:
		return &BalancedRotation{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

func openSlots(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}
	return out
}

// best returns the unused candidate with the highest score for pos that
// passes keep, or -1.
func best(pool []Candidate, used []bool, pos roster.Position, keep func(Candidate) bool) int {
	pick := -1
	var pickScore float64
	for i, c := range pool {
		if used[i] || (keep != nil && !keep(c)) {
			continue
		}
		if s := c.Score(pos); pick < 0 || s > pickScore {
			pick, pickScore = i, s
		}
	}
	return pick
}

// SkillFirst walks slots from most to least important and gives each one to
// the highest scoring candidate left.
type SkillFirst struct{}

func (s *SkillFirst) Name() string { return SkillFirstName }

func (s *SkillFirst) Fill(tmpl formation.Template, pool []Candidate) []int {
	out := openSlots(len(tmpl))
	used := make([]bool, len(pool))
	for _, si := range tmpl.ByImportance() {
		if i := best(pool, used, tmpl[si].Position, nil); i >= 0 {
			out[si] = i
			used[i] = true
		}
	}
	return out
}

// PreferenceFirst first seats candidates in slots they list as preferred,
// then fills what is left by score.
type PreferenceFirst struct{}

func (s *PreferenceFirst) Name() string { return PreferenceFirstName }

func (s *PreferenceFirst) Fill(tmpl formation.Template, pool []Candidate) []int {
	out := openSlots(len(tmpl))
	used := make([]bool, len(pool))
	order := tmpl.ByImportance()

	for _, si := range order {
		pos := tmpl[si].Position
		prefers := func(c Candidate) bool { return c.Player.Prefers(pos) }
		if i := best(pool, used, pos, prefers); i >= 0 {
			out[si] = i
			used[i] = true
		}
	}

	for _, si := range order {
		if out[si] >= 0 {
			continue
		}
		if i := best(pool, used, tmpl[si].Position, nil); i >= 0 {
			out[si] = i
			used[i] = true
		}
	}
	return out
}

// BalancedRotation lets candidates choose in priority order: each takes the
// open slot where they are fittest, with ties going to the more important
// slot.
type BalancedRotation struct{}

func (s *BalancedRotation) Name() string { return BalancedRotationName }

func (s *BalancedRotation) Fill(tmpl formation.Template, pool []Candidate) []int {
	out := openSlots(len(tmpl))
	order := tmpl.ByImportance()
	for i, c := range pool {
		pick := -1
		var pickFit float64
		for _, si := range order {
			if out[si] >= 0 {
				continue
			}
			if f := c.Player.Fitness(tmpl[si].Position); pick < 0 || f > pickFit {
				pick, pickFit = si, f
			}
		}
		if pick < 0 {
			break
		}
		out[pick] = i
	}
	return out
}
