package validator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/excel"
	"github.com/derekprior/lineup/internal/formation"
	"github.com/derekprior/lineup/internal/roster"
	"github.com/derekprior/lineup/internal/schedule"
	"github.com/xuri/excelize/v2"
)

func squad(n, keepers int) []roster.Player {
	tmpl := formation.Default()
	players := make([]roster.Player, n)
	for i := range players {
		v := 3 + i%5
		p := roster.Player{
			Name: fmt.Sprintf("P%02d", i+1),
			Skills: roster.Skills{
				Attacking: v, Midfield: v, Defense: v, Passing: v, Speed: v, BallControl: v,
				Shooting: v, Vision: v, Concentration: v, Fierceness: v, Insight: v,
			},
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

// writeWorkbook plans a match, renders it, applies tamper to the workbook and
// saves it.
func writeWorkbook(t *testing.T, cfg *config.Config, players []roster.Player, tamper func(*excelize.File)) string {
	t.Helper()
	sched, err := schedule.Build(players, cfg)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	f, err := excel.Generate(cfg, sched)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if tamper != nil {
		tamper(f)
	}
	path := t.TempDir() + "/lineup.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	return path
}

func errorsOf(violations []Violation) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Type == "error" {
			out = append(out, v)
		}
	}
	return out
}

func hasMessage(violations []Violation, substr string) bool {
	for _, v := range violations {
		if strings.Contains(v.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateGeneratedSchedule(t *testing.T) {
	for _, tc := range []struct{ players, keepers int }{{13, 1}, {14, 2}, {11, 1}} {
		t.Run(fmt.Sprintf("%d players %d keepers", tc.players, tc.keepers), func(t *testing.T) {
			cfg := config.Default()
			players := squad(tc.players, tc.keepers)
			path := writeWorkbook(t, &cfg, players, nil)

			violations, err := Validate(&cfg, players, path)
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			for _, v := range errorsOf(violations) {
				t.Errorf("hard violation: %s (%s row %d)", v.Message, v.Sheet, v.Row)
			}
			for _, v := range violations {
				if v.Type == "warning" {
					t.Logf("WARNING: %s", v.Message)
				}
			}
		})
	}
}

func TestValidateTamperedWorkbook(t *testing.T) {
	cfg := config.Default()
	players := squad(14, 2)

	t.Run("wrong minutes total", func(t *testing.T) {
		path := writeWorkbook(t, &cfg, players, func(f *excelize.File) {
			f.SetCellValue("Minutes", "C2", 999)
		})
		violations, err := Validate(&cfg, players, path)
		if err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		errs := errorsOf(violations)
		if len(errs) == 0 {
			t.Fatal("expected an error for tampered minutes")
		}
		found := false
		for _, v := range errs {
			if v.Sheet == "Minutes" && v.Row == 2 {
				found = true
			}
		}
		if !found {
			t.Errorf("no violation located at Minutes row 2: %v", errs)
		}
	})

	t.Run("unknown player in lineup", func(t *testing.T) {
		path := writeWorkbook(t, &cfg, players, func(f *excelize.File) {
			f.SetCellValue("Lineup", "F2", "Stranger")
		})
		violations, err := Validate(&cfg, players, path)
		if err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if !hasMessage(errorsOf(violations), "Stranger is not on the roster") {
			t.Errorf("expected unknown player error, got %v", violations)
		}
	})

	t.Run("player twice in one lineup", func(t *testing.T) {
		path := writeWorkbook(t, &cfg, players, func(f *excelize.File) {
			first, _ := f.GetCellValue("Lineup", "F2")
			f.SetCellValue("Lineup", "G2", first)
		})
		violations, err := Validate(&cfg, players, path)
		if err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if !hasMessage(errorsOf(violations), "plays both") {
			t.Errorf("expected duplicate player error, got %v", violations)
		}
	})

	t.Run("substitution out of the match", func(t *testing.T) {
		path := writeWorkbook(t, &cfg, players, func(f *excelize.File) {
			f.SetCellValue("Substitutions", "A2", 500)
		})
		violations, err := Validate(&cfg, players, path)
		if err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if !hasMessage(errorsOf(violations), "outside the match") {
			t.Errorf("expected substitution error, got %v", violations)
		}
	})

	t.Run("absent player", func(t *testing.T) {
		path := writeWorkbook(t, &cfg, players, nil)
		marked := append([]roster.Player(nil), players...)
		marked[5].Absent = true
		violations, err := Validate(&cfg, marked, path)
		if err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if !hasMessage(errorsOf(violations), "P06 is marked absent") {
			t.Errorf("expected absent player error, got %v", violations)
		}
	})
}

func TestValidateUnreadableWorkbook(t *testing.T) {
	cfg := config.Default()
	players := squad(13, 1)

	t.Run("missing file", func(t *testing.T) {
		if _, err := Validate(&cfg, players, t.TempDir()+"/nope.xlsx"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("formation mismatch", func(t *testing.T) {
		path := writeWorkbook(t, &cfg, players, nil)
		other := cfg
		other.Formation = formation.Template{{Key: "DC", Position: roster.DC}, {Key: "ST", Position: roster.ST}}
		if _, err := Validate(&other, players, path); err == nil {
			t.Error("expected error for formation mismatch")
		}
	})

	t.Run("non-numeric minute", func(t *testing.T) {
		path := writeWorkbook(t, &cfg, players, func(f *excelize.File) {
			f.SetCellValue("Substitutions", "A2", "soon")
		})
		if _, err := Validate(&cfg, players, path); err == nil {
			t.Error("expected error for non-numeric minute")
		}
	})
}

func TestCheckGoalkeepers(t *testing.T) {
	players := squad(12, 1)

	t.Run("no violation for a goalkeeper", func(t *testing.T) {
		sched := &schedule.Schedule{Periods: []schedule.Period{{Goalkeeper: "P01"}}}
		if v := checkGoalkeepers(sched, players); len(v) != 0 {
			t.Errorf("expected 0 violations, got %v", v)
		}
	})

	t.Run("violation for an outfield player in goal", func(t *testing.T) {
		sched := &schedule.Schedule{Periods: []schedule.Period{{Goalkeeper: "P01"}, {Goalkeeper: "P04"}}}
		v := checkGoalkeepers(sched, players)
		if len(v) != 1 {
			t.Fatalf("expected 1 violation, got %v", v)
		}
		if v[0].Row != 3 {
			t.Errorf("Row = %d, want 3", v[0].Row)
		}
	})
}

func TestCheckMinutesCoverage(t *testing.T) {
	players := squad(3, 1)
	players[2].Absent = true

	sched := &schedule.Schedule{Minutes: []schedule.PlayerMinutes{{Name: "P01", Minutes: 60}}}
	v := checkMinutesCoverage(sched, players)
	if len(v) != 1 || !strings.Contains(v[0].Message, "P02") {
		t.Errorf("expected only P02 to be missing, got %v", v)
	}
}

func TestCheckFairness(t *testing.T) {
	cfg := config.Default()

	t.Run("no warnings for an even split", func(t *testing.T) {
		sched := &schedule.Schedule{Minutes: []schedule.PlayerMinutes{
			{Name: "A", Target: 45, Minutes: 45},
			{Name: "B", Target: 45, Minutes: 50},
		}}
		if v := checkFairness(&cfg, sched); len(v) != 0 {
			t.Errorf("expected 0 warnings, got %v", v)
		}
	})

	t.Run("warnings for short and idle players", func(t *testing.T) {
		sched := &schedule.Schedule{Minutes: []schedule.PlayerMinutes{
			{Name: "A", Target: 40, Minutes: 60},
			{Name: "B", Target: 40, Minutes: 20},
			{Name: "C", Target: 40, Minutes: 0},
		}}
		v := checkFairness(&cfg, sched)
		if len(v) != 3 {
			t.Fatalf("expected 3 warnings, got %d: %v", len(v), v)
		}
		for _, vi := range v {
			if vi.Type != "warning" {
				t.Errorf("expected warning, got %s", vi.Type)
			}
		}
		if !hasMessage(v, "spread 60") {
			t.Errorf("expected spread warning, got %v", v)
		}
		if !hasMessage(v, "B plays 20 of 40") {
			t.Errorf("expected short player warning, got %v", v)
		}
	})

	t.Run("one period short is within threshold", func(t *testing.T) {
		sched := &schedule.Schedule{Minutes: []schedule.PlayerMinutes{
			{Name: "A", Target: 40, Minutes: 45},
			{Name: "B", Target: 40, Minutes: 30},
		}}
		if v := checkFairness(&cfg, sched); len(v) != 0 {
			t.Errorf("expected 0 warnings, got %v", v)
		}
	})

	t.Run("keeper in goal all match is left out of the spread", func(t *testing.T) {
		sched := &schedule.Schedule{
			Periods: []schedule.Period{{Half: 1, Goalkeeper: "K"}, {Half: 2, Goalkeeper: "K"}},
			Minutes: []schedule.PlayerMinutes{
				{Name: "K", Target: 60, Minutes: 60},
				{Name: "A", Target: 40, Minutes: 45},
				{Name: "B", Target: 40, Minutes: 30},
			},
		}
		if v := checkFairness(&cfg, sched); len(v) != 0 {
			t.Errorf("expected 0 warnings, got %v", v)
		}

		sched.Periods[1].Goalkeeper = "B"
		if v := checkFairness(&cfg, sched); !hasMessage(v, "spread 30") {
			t.Errorf("expected spread warning once keepers rotate, got %v", v)
		}
	})
}

func TestFairnessWarningMatchesPlanner(t *testing.T) {
	long := config.Default()
	long.Match.PeriodMinutes = 30
	long.Rebalance.Enabled = false

	tests := []struct {
		name             string
		cfg              config.Config
		players, keepers int
	}{
		{"16 players 1 keeper", config.Default(), 16, 1},
		{"20 players 1 keeper", config.Default(), 20, 1},
		{"30 players 2 keepers", config.Default(), 30, 2},
		{"12 players 3 keepers", config.Default(), 12, 3},
		{"long periods without rebalancing", long, 13, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			players := squad(tt.players, tt.keepers)
			sched, err := schedule.Build(players, &cfg)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			path := writeWorkbook(t, &cfg, players, nil)

			violations, err := Validate(&cfg, players, path)
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			for _, v := range errorsOf(violations) {
				t.Errorf("hard violation: %s (%s row %d)", v.Message, v.Sheet, v.Row)
			}
			warned := hasMessage(violations, "minutes spread")
			if warned == sched.Metrics.Fair {
				t.Errorf("spread warning = %v but Fair = %v (spread %d)", warned, sched.Metrics.Fair, sched.Metrics.MinutesVariance)
			}
			if hasMessage(violations, "target minutes") && sched.Metrics.Fair {
				t.Errorf("fair plan has short player warnings: %v", violations)
			}
		})
	}
}
