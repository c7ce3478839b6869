package schedule

import (
	"fmt"
	"sort"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/formation"
	"github.com/derekprior/lineup/internal/ledger"
)

// Derive turns consecutive periods into a substitution timeline.
//
// A keeper change is emitted at the half boundary when the halves have
// different keepers. Every slot whose occupant differs between the end of
// one period and the start of the next gets a rotation at the later
// period's start. With rebalancing enabled, each period's midpoint swaps
// benched players short of target for on-pitch players over it; those
// swaps move the remaining minutes of the period in l.
func Derive(periods []Period, l *ledger.Ledger, cfg *config.Config) ([]Substitution, error) {
	var subs []Substitution
	var closing Lineup

	for i, p := range periods {
		if i > 0 {
			prev := periods[i-1]
			if prev.Goalkeeper != p.Goalkeeper {
				subs = append(subs, Substitution{
					Minute: p.Start,
					Slot:   formation.KeeperSlot,
					Out:    prev.Goalkeeper,
					In:     p.Goalkeeper,
					Kind:   KindKeeper,
				})
			}
			rot, err := rotations(closing, p)
			if err != nil {
				return nil, err
			}
			subs = append(subs, rot...)
		}

		current := p.Lineup.Clone()
		if cfg.Rebalance.Enabled {
			moves, err := rebalance(p, current, l, cfg.RebalanceThreshold(), cfg.Rebalance.MaxPerMoment)
			if err != nil {
				return nil, err
			}
			subs = append(subs, moves...)
		}
		closing = current
	}
	return subs, nil
}

func rotations(closing Lineup, next Period) ([]Substitution, error) {
	if len(closing) != len(next.Lineup) {
		return nil, &InvalidSubstitutionError{
			Minute: next.Start,
			Reason: fmt.Sprintf("lineup has %d slots, previous had %d", len(next.Lineup), len(closing)),
		}
	}

	var subs []Substitution
	for i, a := range next.Lineup {
		before := closing[i]
		if before.Slot != a.Slot {
			return nil, &InvalidSubstitutionError{
				Minute: next.Start,
				Slot:   a.Slot,
				Reason: fmt.Sprintf("slot order changed from %s", before.Slot),
			}
		}
		if !before.Filled || !a.Filled {
			return nil, &InvalidSubstitutionError{Minute: next.Start, Slot: a.Slot, Reason: "slot is empty"}
		}
		if before.Player == a.Player {
			continue
		}
		subs = append(subs, Substitution{
			Minute: next.Start,
			Slot:   a.Slot,
			Out:    before.Player,
			In:     a.Player,
			Kind:   KindRotation,
		})
	}
	return subs, nil
}

type need struct {
	name  string
	gap   int
	index int
}

func byGap(ns []need) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].gap != ns[j].gap {
			return ns[i].gap > ns[j].gap
		}
		return ns[i].index < ns[j].index
	})
}

// rebalance swaps bench players more than threshold minutes short of target
// for on-pitch players more than threshold over it, at p's midpoint. It
// edits current in place and moves the remaining minutes in l.
func rebalance(p Period, current Lineup, l *ledger.Ledger, threshold, limit int) ([]Substitution, error) {
	minute := p.Midpoint()
	if !p.Inside(minute) || limit == 0 {
		return nil, nil
	}

	var ins, outs []need
	for _, name := range p.Bench {
		if e, ok := l.Entry(name); ok && e.Deficit() > threshold {
			ins = append(ins, need{name, e.Deficit(), l.Index(name)})
		}
	}
	for _, a := range current {
		if !a.Filled {
			continue
		}
		if e, ok := l.Entry(a.Player); ok && -e.Deficit() > threshold {
			outs = append(outs, need{a.Player, -e.Deficit(), l.Index(a.Player)})
		}
	}
	byGap(ins)
	byGap(outs)

	remaining := p.End - minute
	n := min(len(ins), len(outs), limit)
	subs := make([]Substitution, 0, n)
	for k := range n {
		out, in := outs[k].name, ins[k].name
		slot := current.SlotOf(out)
		if slot < 0 {
			return nil, &InvalidSubstitutionError{Minute: minute, Reason: fmt.Sprintf("%s is not on the pitch", out)}
		}
		if current.SlotOf(in) >= 0 || in == p.Goalkeeper {
			return nil, &InvalidSubstitutionError{
				Minute: minute, Slot: current[slot].Slot,
				Reason: fmt.Sprintf("%s is already playing", in),
			}
		}

		if err := l.Adjust(out, -remaining); err != nil {
			return nil, &InvalidSubstitutionError{Minute: minute, Slot: current[slot].Slot, Reason: err.Error()}
		}
		if err := l.Adjust(in, remaining); err != nil {
			return nil, &InvalidSubstitutionError{Minute: minute, Slot: current[slot].Slot, Reason: err.Error()}
		}
		current.assign(slot, in)

		subs = append(subs, Substitution{
			Minute: minute,
			Slot:   current[slot].Slot,
			Out:    out,
			In:     in,
			Kind:   KindRebalance,
		})
	}
	return subs, nil
}

// CountMinutes tallies minutes from the periods and substitutions alone:
// every starter and keeper gets the full period, and each rebalance moves
// the rest of its period from the outgoing to the incoming player. Benched
// players appear with zero.
func CountMinutes(periods []Period, subs []Substitution) map[string]int {
	out := make(map[string]int)
	for name, h := range HalfMinutes(periods, subs) {
		out[name] = h[0] + h[1]
	}
	return out
}

// HalfMinutes is CountMinutes split into first and second half.
func HalfMinutes(periods []Period, subs []Substitution) map[string][2]int {
	out := make(map[string][2]int)
	credit := func(name string, half, minutes int) {
		h := out[name]
		if half == 2 {
			h[1] += minutes
		} else {
			h[0] += minutes
		}
		out[name] = h
	}

	for _, p := range periods {
		if p.Goalkeeper != "" {
			credit(p.Goalkeeper, p.Half, p.Duration())
		}
		for _, a := range p.Lineup {
			if a.Filled {
				credit(a.Player, p.Half, p.Duration())
			}
		}
		for _, name := range p.Bench {
			credit(name, p.Half, 0)
		}
	}
	for _, s := range subs {
		if s.Kind != KindRebalance {
			continue
		}
		i := periodAt(periods, s.Minute)
		if i < 0 {
			continue
		}
		moved := periods[i].End - s.Minute
		credit(s.Out, periods[i].Half, -moved)
		credit(s.In, periods[i].Half, moved)
	}
	return out
}
