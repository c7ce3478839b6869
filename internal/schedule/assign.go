package schedule

import (
	"sort"

	"github.com/derekprior/lineup/internal/formation"
	"github.com/derekprior/lineup/internal/ledger"
	"github.com/derekprior/lineup/internal/roster"
	"github.com/derekprior/lineup/internal/strategy"
)

// AssignPeriod fills one period's lineup from the eligible players and
// returns it with the bench.
//
// Only the len(tmpl) players the ledger ranks highest are offered to the
// strategy; the rest sit. Slots the strategy leaves open are filled by
// moving a player up from a less important slot and backfilling that slot
// from whoever is left. Any slot still empty is an
// *UnfillablePositionError.
func AssignPeriod(tmpl formation.Template, eligible []roster.Player, l *ledger.Ledger,
	strat strategy.Strategy, minimumMinutes int) (Lineup, []string, error) {

	byName := make(map[string]roster.Player, len(eligible))
	names := make([]string, len(eligible))
	for i, p := range eligible {
		byName[p.Name] = p
		names[i] = p.Name
	}

	ranked := l.Ranked(names)
	poolSize := min(len(ranked), len(tmpl))
	pool := make([]strategy.Candidate, poolSize)
	for i, name := range ranked[:poolSize] {
		pool[i] = strategy.Candidate{
			Player:     byName[name],
			Multiplier: l.Multiplier(name, minimumMinutes),
		}
	}

	lineup := NewLineup(tmpl)
	used := make(map[string]bool, len(tmpl))
	for si, pi := range strat.Fill(tmpl, pool) {
		if pi < 0 || pi >= len(pool) {
			continue
		}
		name := pool[pi].Player.Name
		if used[name] {
			continue
		}
		lineup.assign(si, name)
		used[name] = true
	}

	var spare []strategy.Candidate
	for _, name := range ranked {
		if !used[name] {
			spare = append(spare, strategy.Candidate{
				Player:     byName[name],
				Multiplier: l.Multiplier(name, minimumMinutes),
			})
		}
	}
	borrow(tmpl, lineup, used, spare)

	for _, a := range lineup {
		if !a.Filled {
			return nil, nil, &UnfillablePositionError{Slot: a.Slot}
		}
	}

	return lineup, bench(eligible, used, l), nil
}

// borrow fills empty slots from strictly less important filled ones, least
// important first, and backfills each vacated slot from spare.
func borrow(tmpl formation.Template, lineup Lineup, used map[string]bool, spare []strategy.Candidate) {
	order := tmpl.ByImportance()
	for _, si := range order {
		if lineup[si].Filled {
			continue
		}
		need := tmpl[si].Position.Importance()

		from := -1
		for k := len(order) - 1; k >= 0; k-- {
			lo := order[k]
			if lineup[lo].Filled && tmpl[lo].Position.Importance() < need {
				from = lo
				break
			}
		}
		if from < 0 {
			continue
		}

		lineup.assign(si, lineup[from].Player)
		lineup.clear(from)

		pick := -1
		var pickScore float64
		for i, c := range spare {
			if used[c.Player.Name] {
				continue
			}
			if s := c.Score(tmpl[from].Position); pick < 0 || s > pickScore {
				pick, pickScore = i, s
			}
		}
		if pick >= 0 {
			lineup.assign(from, spare[pick].Player.Name)
			used[spare[pick].Player.Name] = true
		}
	}
}

// bench lists eligible players left out, fewest minutes first and then in
// roster order.
func bench(eligible []roster.Player, used map[string]bool, l *ledger.Ledger) []string {
	var out []string
	for _, p := range eligible {
		if !used[p.Name] {
			out = append(out, p.Name)
		}
	}
	actual := func(name string) int {
		e, _ := l.Entry(name)
		return e.Actual
	}
	sort.SliceStable(out, func(i, j int) bool {
		return actual(out[i]) < actual(out[j])
	})
	return out
}
