// Package schedule builds a match plan: one lineup per period, the
// substitutions between them, and the resulting minutes and metrics.
package schedule

import (
	"github.com/derekprior/lineup/internal/formation"
	"github.com/derekprior/lineup/internal/roster"
)

// Assignment is one slot of a lineup. Filled is false for an empty slot.
type Assignment struct {
	Slot     string          `json:"slot"`
	Position roster.Position `json:"position"`
	Player   string          `json:"player,omitempty"`
	Filled   bool            `json:"filled"`
}

// Lineup holds one assignment per template slot, in template order.
type Lineup []Assignment

// NewLineup returns an empty lineup for tmpl.
func NewLineup(tmpl formation.Template) Lineup {
	l := make(Lineup, len(tmpl))
	for i, s := range tmpl {
		l[i] = Assignment{Slot: s.Key, Position: s.Position}
	}
	return l
}

func (l Lineup) assign(i int, name string) {
	l[i].Player = name
	l[i].Filled = true
}

func (l Lineup) clear(i int) {
	l[i].Player = ""
	l[i].Filled = false
}

// Total reports whether every slot is filled.
func (l Lineup) Total() bool {
	for _, a := range l {
		if !a.Filled {
			return false
		}
	}
	return true
}

// Players returns the filled players in slot order.
func (l Lineup) Players() []string {
	out := make([]string, 0, len(l))
	for _, a := range l {
		if a.Filled {
			out = append(out, a.Player)
		}
	}
	return out
}

// SlotOf returns the index of the slot name occupies, or -1.
func (l Lineup) SlotOf(name string) int {
	for i, a := range l {
		if a.Filled && a.Player == name {
			return i
		}
	}
	return -1
}

// Index returns the index of slot key, or -1.
func (l Lineup) Index(key string) int {
	for i, a := range l {
		if a.Slot == key {
			return i
		}
	}
	return -1
}

// Clone returns an independent copy.
func (l Lineup) Clone() Lineup {
	return append(Lineup(nil), l...)
}

// Period is a stretch of the match played with one starting lineup.
// Start is inclusive and End exclusive.
type Period struct {
	Label      string   `json:"label"`
	Number     int      `json:"number"`
	Half       int      `json:"half"`
	Index      int      `json:"index"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Goalkeeper string   `json:"goalkeeper"`
	Lineup     Lineup   `json:"lineup"`
	Bench      []string `json:"bench"`
}

func (p Period) Duration() int {
	return p.End - p.Start
}

// Midpoint is where mid-period changes happen.
func (p Period) Midpoint() int {
	return p.Start + p.Duration()/2
}

// Inside reports whether minute falls strictly between Start and End.
func (p Period) Inside(minute int) bool {
	return minute > p.Start && minute < p.End
}

// SubstitutionKind says why a substitution happens.
type SubstitutionKind string

const (
	// KindKeeper is the half-time goalkeeper change.
	KindKeeper SubstitutionKind = "keeper"
	// KindRotation is a lineup change at a period boundary.
	KindRotation SubstitutionKind = "rotation"
	// KindRebalance is a mid-period swap that moves minutes between players.
	KindRebalance SubstitutionKind = "rebalance"
)

type Substitution struct {
	Minute int              `json:"minute"`
	Slot   string           `json:"slot"`
	Out    string           `json:"out"`
	In     string           `json:"in"`
	Kind   SubstitutionKind `json:"kind"`
}

// PlayerMinutes is one available player's final tally. FirstHalf and
// SecondHalf always add up to Minutes.
type PlayerMinutes struct {
	Name       string `json:"name"`
	Target     int    `json:"target"`
	Minutes    int    `json:"minutes"`
	FirstHalf  int    `json:"first_half"`
	SecondHalf int    `json:"second_half"`
}

// Metrics describe a finished plan. MinutesVariance is the gap between the
// most and least played players, leaving out a keeper who is in goal for
// the whole match; Fair compares it with the fairness threshold.
type Metrics struct {
	AverageTeamStrength float64 `json:"average_team_strength"`
	FirstHalfStrength   float64 `json:"first_half_strength"`
	SecondHalfStrength  float64 `json:"second_half_strength"`
	MinutesVariance     int     `json:"minutes_variance"`
	FairnessStdDev      float64 `json:"fairness_std_dev"`
	Fair                bool    `json:"fair"`
}

// Schedule is a complete match plan. It is built in one go and never
// modified afterwards.
type Schedule struct {
	ID            string          `json:"id"`
	Strategy      string          `json:"strategy"`
	Periods       []Period        `json:"periods"`
	Substitutions []Substitution  `json:"substitutions"`
	Minutes       []PlayerMinutes `json:"minutes"`
	Metrics       Metrics         `json:"metrics"`
}

// MinutesFor returns name's final minutes.
func (s *Schedule) MinutesFor(name string) (int, bool) {
	for _, m := range s.Minutes {
		if m.Name == name {
			return m.Minutes, true
		}
	}
	return 0, false
}

// SubstitutionsOf returns the substitutions of one kind, in order.
func (s *Schedule) SubstitutionsOf(kind SubstitutionKind) []Substitution {
	var out []Substitution
	for _, sub := range s.Substitutions {
		if sub.Kind == kind {
			out = append(out, sub)
		}
	}
	return out
}
