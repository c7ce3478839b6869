package schedule

import (
	"math"

	"github.com/derekprior/lineup/internal/roster"
)

// ComputeMetrics summarizes strength and fairness. Fair is left for the
// caller, which owns the threshold.
//
// Strength is the mean position fitness of everyone on the pitch in each
// period's starting lineup, keeper included, over the match and per half.
// The minutes spread and standard deviation cover FairnessPool.
func ComputeMetrics(available []roster.Player, periods []Period, minutes []PlayerMinutes) Metrics {
	byName := make(map[string]roster.Player, len(available))
	for _, p := range available {
		byName[p.Name] = p
	}

	var total, halfTotal [3]float64
	var count, halfCount [3]int
	for _, p := range periods {
		h := 0
		if p.Half == 1 || p.Half == 2 {
			h = p.Half
		}
		add := func(fit float64) {
			total[0] += fit
			count[0]++
			halfTotal[h] += fit
			halfCount[h]++
		}
		if gk, ok := byName[p.Goalkeeper]; ok {
			add(gk.Fitness(roster.GK))
		}
		for _, a := range p.Lineup {
			if pl, ok := byName[a.Player]; ok && a.Filled {
				add(pl.Fitness(a.Position))
			}
		}
	}

	var m Metrics
	m.AverageTeamStrength = mean(total[0], count[0])
	m.FirstHalfStrength = mean(halfTotal[1], halfCount[1])
	m.SecondHalfStrength = mean(halfTotal[2], halfCount[2])

	pool := FairnessPool(periods, minutes)
	if len(pool) == 0 {
		return m
	}

	lo, hi := pool[0].Minutes, pool[0].Minutes
	sum := 0
	for _, pm := range pool {
		lo = min(lo, pm.Minutes)
		hi = max(hi, pm.Minutes)
		sum += pm.Minutes
	}
	m.MinutesVariance = hi - lo

	avg := float64(sum) / float64(len(pool))
	var sq float64
	for _, pm := range pool {
		d := float64(pm.Minutes) - avg
		sq += d * d
	}
	m.FairnessStdDev = math.Sqrt(sq / float64(len(pool)))
	return m
}

func mean(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// FixedKeeper returns the goalkeeper when the same player keeps in every
// period.
func FixedKeeper(periods []Period) (string, bool) {
	if len(periods) == 0 || periods[0].Goalkeeper == "" {
		return "", false
	}
	gk := periods[0].Goalkeeper
	for _, p := range periods[1:] {
		if p.Goalkeeper != gk {
			return "", false
		}
	}
	return gk, true
}

// FairnessPool is the minutes fairness is judged on: everyone except a
// fixed keeper, whose minutes are never shared out.
func FairnessPool(periods []Period, minutes []PlayerMinutes) []PlayerMinutes {
	gk, fixed := FixedKeeper(periods)
	out := make([]PlayerMinutes, 0, len(minutes))
	for _, pm := range minutes {
		if fixed && pm.Name == gk {
			continue
		}
		out = append(out, pm)
	}
	return out
}
