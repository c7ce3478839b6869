// Package ledger tracks target and actual playing minutes per player.
//
// The ledger is the only place minutes are stored. Players stay immutable,
// so the same roster can feed any number of independent ledgers.
package ledger

import (
	"fmt"
	"sort"

	"github.com/derekprior/lineup/internal/roster"
)

const (
	deficitWeight = 3.0
	unplayedBonus = 1000.0
	skillWeight   = 0.05
)

// Multiplier tiers applied to position fitness during assignment.
const (
	BelowMinimum = 4.0
	BelowTarget  = 2.0
	AtTarget     = 0.25
)

// Entry is one player's bookkeeping.
//
// Committed holds minutes the player is certain to play later, such as a
// rotating keeper's half in goal. They count against the deficit before they
// are played and move to Actual when Settle is called.
type Entry struct {
	Name      string
	Target    int
	Actual    int
	Committed int
	Priority  float64

	index int
	rank  int
	skill float64
}

// Projected is actual plus committed minutes.
func (e Entry) Projected() int {
	return e.Actual + e.Committed
}

// Deficit is how many minutes the player is short of target once committed
// minutes are played. Negative when over.
func (e Entry) Deficit() int {
	return e.Target - e.Projected()
}

// Priority ranks how urgently a player needs minutes. Deficit dominates,
// players yet to appear get a large bonus, and average skill nudges near ties.
// The bonus looks at Actual only: a keeper whose goal minutes are still to
// come has not appeared yet.
func Priority(e Entry) float64 {
	p := float64(e.Deficit()) * deficitWeight
	if e.Actual == 0 {
		p += unplayedBonus
	}
	return p + e.skill*skillWeight
}

// Ledger holds entries keyed by player name.
type Ledger struct {
	entries map[string]*Entry
	order   []string
}

// FieldBudget is the total field minutes available in a match.
func FieldBudget(periodCount, fieldSlots, periodDuration int) int {
	return periodCount * fieldSlots * periodDuration
}

// Plan sets each player's target. Players with TargetMinutes keep it; the
// rest split what is left of budget evenly. The integer remainder is handed
// out one minute at a time in ascending name order, so without overrides the
// targets sum to budget exactly.
func Plan(players []roster.Player, budget int) *Ledger {
	l := &Ledger{entries: make(map[string]*Entry, len(players))}
	if len(players) == 0 {
		return l
	}

	var shared []string
	fixed := 0
	for i, p := range players {
		e := &Entry{
			Name:   p.Name,
			Target: p.TargetMinutes,
			index:  i,
			rank:   max(p.Rank, 1),
			skill:  p.Skills.Average(),
		}
		if p.TargetMinutes > 0 {
			fixed += p.TargetMinutes
		} else {
			shared = append(shared, p.Name)
		}
		l.entries[p.Name] = e
		l.order = append(l.order, p.Name)
	}

	if len(shared) > 0 {
		rest := max(budget-fixed, 0)
		base, remainder := rest/len(shared), rest%len(shared)
		for _, name := range shared {
			l.entries[name].Target = base
		}
		sort.Strings(shared)
		for _, name := range shared[:remainder] {
			l.entries[name].Target++
		}
	}

	l.recompute()
	return l
}

// Len is the number of players in the ledger.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Has reports whether name is tracked.
func (l *Ledger) Has(name string) bool {
	_, ok := l.entries[name]
	return ok
}

// Entry returns a copy of name's entry.
func (l *Ledger) Entry(name string) (Entry, bool) {
	e, ok := l.entries[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Entries returns copies of all entries in roster order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.order))
	for i, name := range l.order {
		out[i] = *l.entries[name]
	}
	return out
}

// Update credits minutes to every listed player and recomputes priorities.
// Names not in the ledger are ignored.
func (l *Ledger) Update(names []string, minutes int) {
	for _, name := range names {
		if e, ok := l.entries[name]; ok {
			e.Actual += minutes
		}
	}
	l.recompute()
}

// Adjust moves a single player's minutes by delta, as a substitution does
// when it pro-rates the rest of a period.
func (l *Ledger) Adjust(name string, delta int) error {
	e, ok := l.entries[name]
	if !ok {
		return fmt.Errorf("player %q is not in the ledger", name)
	}
	if e.Actual+delta < 0 {
		return fmt.Errorf("player %q would drop to %d minutes", name, e.Actual+delta)
	}
	e.Actual += delta
	l.recompute()
	return nil
}

// Commit books minutes name will play later without crediting them yet.
func (l *Ledger) Commit(name string, minutes int) error {
	e, ok := l.entries[name]
	if !ok {
		return fmt.Errorf("player %q is not in the ledger", name)
	}
	if minutes < 0 {
		return fmt.Errorf("cannot commit %d minutes to %q", minutes, name)
	}
	e.Committed += minutes
	l.recompute()
	return nil
}

// Settle credits minutes that were committed earlier.
func (l *Ledger) Settle(name string, minutes int) error {
	e, ok := l.entries[name]
	if !ok {
		return fmt.Errorf("player %q is not in the ledger", name)
	}
	if minutes > e.Committed {
		return fmt.Errorf("player %q has %d committed minutes, cannot settle %d", name, e.Committed, minutes)
	}
	e.Committed -= minutes
	e.Actual += minutes
	l.recompute()
	return nil
}

func (l *Ledger) recompute() {
	for _, e := range l.entries {
		e.Priority = Priority(*e)
	}
}

// Less reports whether a should be picked before b: higher priority first,
// then lower rank, then roster order.
func (l *Ledger) Less(a, b string) bool {
	ea, eb := l.entries[a], l.entries[b]
	switch {
	case ea == nil && eb == nil:
		return a < b
	case ea == nil:
		return false
	case eb == nil:
		return true
	}
	if ea.Priority != eb.Priority {
		return ea.Priority > eb.Priority
	}
	if ea.rank != eb.rank {
		return ea.rank < eb.rank
	}
	return ea.index < eb.index
}

// Ranked returns names sorted by Less.
func (l *Ledger) Ranked(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool { return l.Less(out[i], out[j]) })
	return out
}

// Index is the roster position the ledger was planned with, or -1.
func (l *Ledger) Index(name string) int {
	if e, ok := l.entries[name]; ok {
		return e.index
	}
	return -1
}

// Multiplier returns the fitness multiplier tier for name, judged on
// projected minutes.
func (l *Ledger) Multiplier(name string, minimumMinutes int) float64 {
	e, ok := l.entries[name]
	if !ok {
		return AtTarget
	}
	switch {
	case e.Projected() < minimumMinutes:
		return BelowMinimum
	case e.Projected() < e.Target:
		return BelowTarget
	default:
		return AtTarget
	}
}

// Spread returns the lowest and highest actual minutes.
func (l *Ledger) Spread() (lo, hi int) {
	for i, name := range l.order {
		a := l.entries[name].Actual
		if i == 0 || a < lo {
			lo = a
		}
		if i == 0 || a > hi {
			hi = a
		}
	}
	return lo, hi
}

// IsFair reports whether the gap between the most and least played players
// is within maxDeviation minutes.
func (l *Ledger) IsFair(maxDeviation int) bool {
	lo, hi := l.Spread()
	return hi-lo <= maxDeviation
}

// Clone returns an independent copy.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		entries: make(map[string]*Entry, len(l.entries)),
		order:   append([]string(nil), l.order...),
	}
	for name, e := range l.entries {
		cp := *e
		c.entries[name] = &cp
	}
	return c
}
