package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/derekprior/lineup/internal/formation"
	"github.com/derekprior/lineup/internal/roster"
	"github.com/derekprior/lineup/internal/strategy"
)

type Match struct {
	TotalMinutes  int `yaml:"total_minutes" json:"total_minutes"`
	PeriodMinutes int `yaml:"period_minutes" json:"period_minutes"`
}

type Keepers struct {
	// Rotate swaps keepers at half-time when two or more are available.
	Rotate bool `yaml:"rotate" json:"rotate"`
}

type Rebalance struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// ThresholdMinutes is how far from target a player must be before a
	// mid-period swap is considered. Zero means half a period.
	ThresholdMinutes int `yaml:"threshold_minutes" json:"threshold_minutes"`
	MaxPerMoment     int `yaml:"max_per_moment" json:"max_per_moment"`
}

type Config struct {
	Match             Match              `yaml:"match" json:"match"`
	Formation         formation.Template `yaml:"formation" json:"formation"`
	MinimumMinutes    int                `yaml:"minimum_minutes" json:"minimum_minutes"`
	FairnessThreshold int                `yaml:"fairness_threshold_minutes" json:"fairness_threshold_minutes"`
	Strategy          string             `yaml:"strategy" json:"strategy"`
	Keepers           Keepers            `yaml:"keepers" json:"keepers"`
	Rebalance         Rebalance          `yaml:"rebalance" json:"rebalance"`
}

// Default is a 60 minute 11-a-side match in four 15 minute periods.
func Default() Config {
	return Config{
		Match:             Match{TotalMinutes: 60, PeriodMinutes: 15},
		Formation:         formation.Default(),
		MinimumMinutes:    15,
		FairnessThreshold: 15,
		Strategy:          strategy.SkillFirstName,
		Keepers:           Keepers{Rotate: true},
		Rebalance:         Rebalance{Enabled: true, MaxPerMoment: 4},
	}
}

// Template returns the configured formation, falling back to the default.
func (c *Config) Template() formation.Template {
	if len(c.Formation) == 0 {
		return formation.Default()
	}
	return c.Formation
}

// FieldSlots is the number of outfield players on the pitch.
func (c *Config) FieldSlots() int {
	return c.Template().Size()
}

// HalfMinutes is the length of one half.
func (c *Config) HalfMinutes() int {
	return c.Match.TotalMinutes / 2
}

// PeriodsPerHalf is how many fixed lineups each half is split into.
func (c *Config) PeriodsPerHalf() int {
	if c.Match.PeriodMinutes <= 0 {
		return 0
	}
	return c.HalfMinutes() / c.Match.PeriodMinutes
}

// PeriodCount is the number of periods in the match.
func (c *Config) PeriodCount() int {
	return 2 * c.PeriodsPerHalf()
}

// RebalanceThreshold resolves the zero default to half a period.
func (c *Config) RebalanceThreshold() int {
	if c.Rebalance.ThresholdMinutes > 0 {
		return c.Rebalance.ThresholdMinutes
	}
	return c.Match.PeriodMinutes / 2
}

// LoadFromBytes parses YAML bytes over the defaults and validates the result.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// Validate checks the match can be split into halves and periods and the
// formation and strategy are usable.
func (c *Config) Validate() error {
	if c.Match.TotalMinutes <= 0 {
		return fmt.Errorf("match total_minutes must be positive, got %d", c.Match.TotalMinutes)
	}
	if c.Match.PeriodMinutes <= 0 {
		return fmt.Errorf("match period_minutes must be positive, got %d", c.Match.PeriodMinutes)
	}
	if c.Match.TotalMinutes%2 != 0 {
		return fmt.Errorf("match total_minutes %d does not split into two equal halves", c.Match.TotalMinutes)
	}
	if c.HalfMinutes()%c.Match.PeriodMinutes != 0 || c.PeriodsPerHalf() == 0 {
		return fmt.Errorf("a %d minute half does not split into %d minute periods",
			c.HalfMinutes(), c.Match.PeriodMinutes)
	}

	if err := c.Template().Validate(); err != nil {
		return fmt.Errorf("formation: %w", err)
	}

	if c.MinimumMinutes < 0 {
		return fmt.Errorf("minimum_minutes cannot be negative")
	}
	if c.FairnessThreshold < 0 {
		return fmt.Errorf("fairness_threshold_minutes cannot be negative")
	}
	if c.Rebalance.ThresholdMinutes < 0 {
		return fmt.Errorf("rebalance threshold_minutes cannot be negative")
	}
	if c.Rebalance.MaxPerMoment < 0 {
		return fmt.Errorf("rebalance max_per_moment cannot be negative")
	}

	if _, err := strategy.Get(c.Strategy); err != nil {
		return err
	}
	return nil
}

type rosterFile struct {
	Players []roster.Player `yaml:"players" json:"players"`
}

// LoadRosterBytes parses a roster document (YAML, or JSON which YAML
// accepts). Unrated skills default to 1.
func LoadRosterBytes(data []byte) ([]roster.Player, error) {
	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	players := NormalizeRoster(rf.Players)
	if err := roster.Validate(players); err != nil {
		return nil, err
	}
	return players, nil
}

// LoadRosterFile reads and parses a roster file.
func LoadRosterFile(path string) ([]roster.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}
	return LoadRosterBytes(data)
}

// NormalizeRoster fills unrated skills with 1. The input is not modified.
func NormalizeRoster(players []roster.Player) []roster.Player {
	out := make([]roster.Player, len(players))
	for i, p := range players {
		p.Skills = p.Skills.WithDefaults()
		p.Positions = append([]roster.Position(nil), p.Positions...)
		out[i] = p
	}
	return out
}
