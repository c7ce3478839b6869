package schedule

import (
	"fmt"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/formation"
	"github.com/derekprior/lineup/internal/roster"
)

func flat(v int) roster.Skills {
	return roster.Skills{
		Attacking: v, Midfield: v, Defense: v, Passing: v, Speed: v, BallControl: v,
		Shooting: v, Vision: v, Concentration: v, Fierceness: v, Insight: v,
	}
}

// squad returns n players named P01..Pnn. The first keepers are goalkeepers;
// the rest cycle through the default formation's positions with varied
// skill.
func squad(n, keepers int) []roster.Player {
	tmpl := formation.Default()
	players := make([]roster.Player, n)
	for i := range n {
		p := roster.Player{
			Name:   fmt.Sprintf("P%02d", i+1),
			Skills: flat(3 + i%5),
		}
		if i < keepers {
			p.Keeper = true
			p.Positions = []roster.Position{roster.GK}
		} else {
			p.Positions = []roster.Position{tmpl[(i-keepers)%len(tmpl)].Position}
		}
		players[i] = p
	}
	return players
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func totalMinutes(s *Schedule) int {
	total := 0
	for _, m := range s.Minutes {
		total += m.Minutes
	}
	return total
}
