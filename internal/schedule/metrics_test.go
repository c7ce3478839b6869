package schedule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/derekprior/lineup/internal/roster"
)

func TestComputeMetrics(t *testing.T) {
	keeper := roster.Player{Name: "K", Skills: flat(5), Positions: []roster.Position{roster.GK}, Keeper: true}
	available := []roster.Player{keeper, player("A", roster.DC), player("B", roster.ST), player("C")}
	periods, _ := smallMatch()

	m := ComputeMetrics(available, periods, []PlayerMinutes{
		{Name: "K", Minutes: 20},
		{Name: "A", Minutes: 15},
		{Name: "B", Minutes: 15},
		{Name: "C", Minutes: 10},
	})

	// K keeps at 10, A plays DC at 7.5, B plays ST at 7.5, in both periods.
	strength := (10 + 7.5 + 7.5) / 3
	assert.InDelta(t, strength, m.AverageTeamStrength, 1e-9)
	assert.InDelta(t, strength, m.FirstHalfStrength, 1e-9)
	assert.InDelta(t, strength, m.SecondHalfStrength, 1e-9)

	// K keeps throughout, so only A, B and C count: mean 40/3.
	assert.Equal(t, 5, m.MinutesVariance)
	assert.InDelta(t, math.Sqrt(50.0/9), m.FairnessStdDev, 1e-9)
	assert.False(t, m.Fair, "Fair is set by the builder")
}

func TestComputeMetricsRotatingKeepers(t *testing.T) {
	keeper := roster.Player{Name: "K", Skills: flat(5), Positions: []roster.Position{roster.GK}, Keeper: true}
	available := []roster.Player{keeper, player("A", roster.DC), player("B", roster.ST), player("C")}
	periods, _ := smallMatch()
	periods[1].Goalkeeper = "C"

	m := ComputeMetrics(available, periods, []PlayerMinutes{
		{Name: "K", Minutes: 10},
		{Name: "A", Minutes: 20},
		{Name: "B", Minutes: 20},
		{Name: "C", Minutes: 10},
	})

	// C has no positions, so keeps at 0 in the second half.
	assert.InDelta(t, (10+7.5+7.5)/3, m.FirstHalfStrength, 1e-9)
	assert.InDelta(t, (0+7.5+7.5)/3, m.SecondHalfStrength, 1e-9)
	assert.InDelta(t, (m.FirstHalfStrength+m.SecondHalfStrength)/2, m.AverageTeamStrength, 1e-9)
	assert.Equal(t, 10, m.MinutesVariance, "both keepers count")
	assert.InDelta(t, 5, m.FairnessStdDev, 1e-9)
}

func TestFixedKeeper(t *testing.T) {
	periods, _ := smallMatch()
	gk, ok := FixedKeeper(periods)
	assert.True(t, ok)
	assert.Equal(t, "K", gk)

	pool := FairnessPool(periods, []PlayerMinutes{{Name: "K"}, {Name: "A"}})
	assert.Equal(t, []PlayerMinutes{{Name: "A"}}, pool)

	periods[1].Goalkeeper = "K2"
	_, ok = FixedKeeper(periods)
	assert.False(t, ok)
	assert.Len(t, FairnessPool(periods, []PlayerMinutes{{Name: "K"}, {Name: "A"}}), 2)

	_, ok = FixedKeeper(nil)
	assert.False(t, ok)
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil, nil, nil)
	assert.Equal(t, Metrics{}, m)
}
