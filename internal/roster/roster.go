package roster

import (
	"fmt"
	"slices"
)

// Position is a place on the pitch a player can be assigned to.
type Position string

const (
	GK  Position = "GK"
	DC  Position = "DC"
	DL  Position = "DL"
	DR  Position = "DR"
	CDM Position = "CDM"
	CAM Position = "CAM"
	LW  Position = "LW"
	ST  Position = "ST"
	RW  Position = "RW"
)

// AllPositions lists every known position, goalkeeper first.
var AllPositions = []Position{GK, DC, DL, DR, CDM, CAM, LW, ST, RW}

type group int

const (
	noGroup group = iota
	defenders
	midfielders
	attackers
)

func (p Position) group() group {
	switch p {
	case DC, DL, DR:
		return defenders
	case CDM, CAM:
		return midfielders
	case LW, ST, RW:
		return attackers
	}
	return noGroup
}

// Valid reports whether p is one of AllPositions.
func (p Position) Valid() bool {
	return slices.Contains(AllPositions, p)
}

// Importance ranks field positions for assignment order. Higher is filled first.
func (p Position) Importance() int {
	switch p {
	case DC:
		return 10
	case ST:
		return 9
	case CDM:
		return 8
	case CAM:
		return 7
	case DL, DR:
		return 6
	case LW, RW:
		return 5
	}
	return 1
}

// Skills holds a player's rated attributes. Unrated attributes count as 1.
type Skills struct {
	Attacking     int `yaml:"attacking" json:"attacking"`
	Midfield      int `yaml:"midfield" json:"midfield"`
	Defense       int `yaml:"defense" json:"defense"`
	Passing       int `yaml:"passing" json:"passing"`
	Speed         int `yaml:"speed" json:"speed"`
	BallControl   int `yaml:"ball_control" json:"ball_control"`
	Shooting      int `yaml:"shooting" json:"shooting"`
	Vision        int `yaml:"vision" json:"vision"`
	Concentration int `yaml:"concentration" json:"concentration"`
	Fierceness    int `yaml:"fierceness" json:"fierceness"`
	Insight       int `yaml:"insight" json:"insight"`
}

func (s Skills) named() []struct {
	name  string
	value int
} {
	return []struct {
		name  string
		value int
	}{
		{"attacking", s.Attacking},
		{"midfield", s.Midfield},
		{"defense", s.Defense},
		{"passing", s.Passing},
		{"speed", s.Speed},
		{"ball_control", s.BallControl},
		{"shooting", s.Shooting},
		{"vision", s.Vision},
		{"concentration", s.Concentration},
		{"fierceness", s.Fierceness},
		{"insight", s.Insight},
	}
}

// WithDefaults returns a copy with every unset attribute raised to 1.
func (s Skills) WithDefaults() Skills {
	for _, p := range []*int{
		&s.Attacking, &s.Midfield, &s.Defense, &s.Passing, &s.Speed, &s.BallControl,
		&s.Shooting, &s.Vision, &s.Concentration, &s.Fierceness, &s.Insight,
	} {
		if *p == 0 {
			*p = 1
		}
	}
	return s
}

// Validate rejects attributes below 1.
func (s Skills) Validate() error {
	for _, n := range s.named() {
		if n.value < 1 {
			return fmt.Errorf("skill %s must be at least 1, got %d", n.name, n.value)
		}
	}
	return nil
}

// Average is the mean of all attributes.
func (s Skills) Average() float64 {
	total := 0
	attrs := s.named()
	for _, n := range attrs {
		total += n.value
	}
	return float64(total) / float64(len(attrs))
}

// Player is an immutable roster entry. Minutes played are tracked by the
// ledger, never on the player.
type Player struct {
	Name      string     `yaml:"name" json:"name"`
	Skills    Skills     `yaml:"skills" json:"skills"`
	Positions []Position `yaml:"positions" json:"positions"`
	Keeper    bool       `yaml:"keeper" json:"keeper"`
	Absent    bool       `yaml:"absent" json:"absent"`

	// TargetMinutes replaces the player's even share of the match. Zero
	// means no override.
	TargetMinutes int `yaml:"target_minutes,omitempty" json:"target_minutes,omitempty"`
	// Rank orders players the ledger otherwise ties on. Lower goes first;
	// zero counts as 1.
	Rank int `yaml:"rank,omitempty" json:"rank,omitempty"`
}

// MainPosition is the first preferred position, if any.
func (p Player) MainPosition() (Position, bool) {
	if len(p.Positions) == 0 {
		return "", false
	}
	return p.Positions[0], true
}

// Prefers reports whether pos is among the player's preferred positions.
func (p Player) Prefers(pos Position) bool {
	return slices.Contains(p.Positions, pos)
}

// CanKeep reports whether the player may play in goal.
func (p Player) CanKeep() bool {
	return p.Keeper || p.Prefers(GK)
}

// Fitness scores how well the player suits pos.
func (p Player) Fitness(pos Position) float64 {
	if pos == GK {
		return p.keeperFitness()
	}
	return p.skillFor(pos) * p.bonusFor(pos)
}

func (p Player) keeperFitness() float64 {
	if main, ok := p.MainPosition(); ok && main == GK {
		return 10
	}
	if p.CanKeep() {
		return 5
	}
	return 0
}

func (p Player) skillFor(pos Position) float64 {
	s := p.Skills
	switch pos {
	case DC:
		return float64(s.Defense*2+s.Fierceness+s.Concentration) / 4
	case DL, DR:
		return float64(s.Defense+s.Speed+s.Passing+s.Fierceness) / 4
	case CDM:
		return float64(s.Defense+s.Midfield+s.Passing+s.Vision+s.BallControl+s.Concentration) / 6
	case CAM:
		return float64(s.Attacking+s.Midfield+s.Passing+s.Vision) / 4
	case LW, RW:
		return float64(s.Attacking+s.Speed+s.Shooting) / 3
	case ST:
		return float64(s.Attacking*2+s.Shooting+s.Speed+s.Fierceness) / 5
	}
	return 0
}

func (p Player) bonusFor(pos Position) float64 {
	main, ok := p.MainPosition()
	if ok && main == pos {
		return 1.5
	}
	if p.Prefers(pos) {
		return 1.2
	}
	if ok && main.group() != noGroup && main.group() == pos.group() {
		return 0.9
	}
	for _, sec := range p.Positions {
		if sec.group() != noGroup && sec.group() == pos.group() {
			return 1.0
		}
	}
	return 0.7
}

// Available returns the players not marked absent, in roster order.
func Available(players []Player) []Player {
	var out []Player
	for _, p := range players {
		if !p.Absent {
			out = append(out, p)
		}
	}
	return out
}

// Keepers returns the keeper-eligible players, in roster order.
func Keepers(players []Player) []Player {
	var out []Player
	for _, p := range players {
		if p.CanKeep() {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks names are present and unique and every attribute is rated.
func Validate(players []Player) error {
	if len(players) == 0 {
		return fmt.Errorf("roster is empty")
	}
	seen := make(map[string]bool)
	for i, p := range players {
		if p.Name == "" {
			return fmt.Errorf("player %d has no name", i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("player %q appears more than once", p.Name)
		}
		seen[p.Name] = true
		if err := p.Skills.Validate(); err != nil {
			return fmt.Errorf("player %q: %w", p.Name, err)
		}
		for _, pos := range p.Positions {
			if !pos.Valid() {
				return fmt.Errorf("player %q: unknown position %q", p.Name, pos)
			}
		}
		if p.TargetMinutes < 0 {
			return fmt.Errorf("player %q: target_minutes must not be negative", p.Name)
		}
		if p.Rank < 0 {
			return fmt.Errorf("player %q: rank must not be negative", p.Name)
		}
	}
	return nil
}
