package schedule

import (
	"errors"
	"fmt"

	"github.com/derekprior/lineup/internal/formation"
)

// Verify checks a schedule against its invariants: every lineup is full
// with distinct players and no keeper, each half keeps one goalkeeper,
// every substitution matches the lineups either side of it, and the
// reported minutes, in total and per half, follow from periods and
// substitutions. All problems are joined into the returned error.
func Verify(s *Schedule) error {
	if len(s.Periods) == 0 {
		return &InconsistencyError{Where: "schedule", Reason: "no periods"}
	}

	var errs []error
	keepers := make(map[int]string)
	for _, p := range s.Periods {
		errs = append(errs, checkLineup(p, s.Periods[0].Lineup)...)

		if p.Goalkeeper == "" {
			errs = append(errs, &InconsistencyError{Where: p.Label, Reason: "no goalkeeper"})
			continue
		}
		if k, ok := keepers[p.Half]; ok && k != p.Goalkeeper {
			errs = append(errs, &InconsistencyError{
				Where:  p.Label,
				Reason: fmt.Sprintf("goalkeeper %s differs from %s earlier in the half", p.Goalkeeper, k),
			})
		} else {
			keepers[p.Half] = p.Goalkeeper
		}
	}

	errs = append(errs, replay(s.Periods, s.Substitutions)...)

	halves := HalfMinutes(s.Periods, s.Substitutions)
	for _, m := range s.Minutes {
		h := halves[m.Name]
		if counted := h[0] + h[1]; counted != m.Minutes {
			errs = append(errs, &InconsistencyError{
				Where:  m.Name,
				Reason: fmt.Sprintf("reported %d minutes, periods and substitutions give %d", m.Minutes, counted),
			})
			continue
		}
		if h[0] != m.FirstHalf || h[1] != m.SecondHalf {
			errs = append(errs, &InconsistencyError{
				Where:  m.Name,
				Reason: fmt.Sprintf("reported %d+%d minutes by half, periods and substitutions give %d+%d", m.FirstHalf, m.SecondHalf, h[0], h[1]),
			})
		}
	}
	return errors.Join(errs...)
}

func checkLineup(p Period, reference Lineup) []error {
	var errs []error
	if len(p.Lineup) != len(reference) {
		errs = append(errs, &InconsistencyError{
			Where:  p.Label,
			Reason: fmt.Sprintf("%d slots, expected %d", len(p.Lineup), len(reference)),
		})
	}
	seen := make(map[string]string)
	for i, a := range p.Lineup {
		if i < len(reference) && a.Slot != reference[i].Slot {
			errs = append(errs, &InconsistencyError{
				Where:  p.Label,
				Reason: fmt.Sprintf("slot %d is %s, expected %s", i+1, a.Slot, reference[i].Slot),
			})
		}
		if !a.Filled || a.Player == "" {
			errs = append(errs, &InconsistencyError{Where: p.Label, Reason: fmt.Sprintf("slot %s is empty", a.Slot)})
			continue
		}
		if prev, dup := seen[a.Player]; dup {
			errs = append(errs, &InconsistencyError{
				Where:  p.Label,
				Reason: fmt.Sprintf("%s plays both %s and %s", a.Player, prev, a.Slot),
			})
		}
		seen[a.Player] = a.Slot
		if a.Player == p.Goalkeeper {
			errs = append(errs, &InconsistencyError{
				Where:  p.Label,
				Reason: fmt.Sprintf("goalkeeper %s also plays %s", a.Player, a.Slot),
			})
		}
	}
	return errs
}

// replay walks the substitutions through the lineups, checking each one
// against the lineup it edits.
func replay(periods []Period, subs []Substitution) []error {
	var errs []error
	invalid := func(s Substitution, format string, args ...any) {
		errs = append(errs, &InvalidSubstitutionError{Minute: s.Minute, Slot: s.Slot, Reason: fmt.Sprintf(format, args...)})
	}

	byPeriod := make([][]Substitution, len(periods))
	for _, s := range subs {
		i := periodAt(periods, s.Minute)
		switch {
		case i < 0:
			invalid(s, "minute is outside the match")
			continue
		case s.Kind == KindRebalance && !periods[i].Inside(s.Minute):
			invalid(s, "rebalance must fall inside a period")
			continue
		case s.Kind != KindRebalance && (i == 0 || s.Minute != periods[i].Start):
			invalid(s, "%s substitution must fall on a period boundary", s.Kind)
			continue
		}
		byPeriod[i] = append(byPeriod[i], s)
	}

	var closing Lineup
	for i, p := range periods {
		if i > 0 {
			next := closing.Clone()
			keeper := periods[i-1].Goalkeeper
			for _, s := range byPeriod[i] {
				switch s.Kind {
				case KindRebalance:
					continue
				case KindKeeper:
					if s.Slot != formation.KeeperSlot {
						invalid(s, "keeper change must use slot %s", formation.KeeperSlot)
					}
					if s.Out != keeper {
						invalid(s, "%s is not in goal", s.Out)
					}
					if s.In != p.Goalkeeper {
						invalid(s, "%s does not keep goal afterwards", s.In)
					}
					keeper = s.In
					continue
				}

				idx := next.Index(s.Slot)
				if idx < 0 || idx >= len(p.Lineup) {
					invalid(s, "unknown slot")
					continue
				}
				if closing[idx].Player != s.Out {
					invalid(s, "%s was not playing %s", s.Out, s.Slot)
				}
				if p.Lineup[idx].Player != s.In {
					invalid(s, "%s does not play %s afterwards", s.In, s.Slot)
				}
				next.assign(idx, s.In)
			}
			if keeper != p.Goalkeeper {
				errs = append(errs, &InvalidSubstitutionError{
					Minute: p.Start, Slot: formation.KeeperSlot,
					Reason: fmt.Sprintf("no keeper change brings %s into goal", p.Goalkeeper),
				})
			}
			if !sameLineup(next, p.Lineup) {
				errs = append(errs, &InvalidSubstitutionError{
					Minute: p.Start,
					Reason: fmt.Sprintf("substitutions do not produce the %s lineup", p.Label),
				})
			}
		}

		current := p.Lineup.Clone()
		for _, s := range byPeriod[i] {
			if s.Kind != KindRebalance {
				continue
			}
			idx := current.Index(s.Slot)
			if idx < 0 || current[idx].Player != s.Out {
				invalid(s, "%s was not playing %s", s.Out, s.Slot)
				continue
			}
			if current.SlotOf(s.In) >= 0 || s.In == p.Goalkeeper {
				invalid(s, "%s is already on the pitch", s.In)
				continue
			}
			current.assign(idx, s.In)
		}
		closing = current
	}
	return errs
}

func sameLineup(a, b Lineup) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Slot != b[i].Slot || a[i].Filled != b[i].Filled || a[i].Player != b[i].Player {
			return false
		}
	}
	return true
}
