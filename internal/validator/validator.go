package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/roster"
	"github.com/derekprior/lineup/internal/schedule"
	"github.com/xuri/excelize/v2"
)

// Violation represents a problem found in a schedule workbook.
type Violation struct {
	Sheet   string
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a schedule workbook and checks it against the config and
// the roster it was planned for.
func Validate(cfg *config.Config, players []roster.Player, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sched, err := readSchedule(cfg, f)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	var violations []Violation

	// Structural checks shared with the planner
	violations = append(violations, checkInvariants(sched)...)

	// Roster checks
	violations = append(violations, checkPlayers(sched, players)...)
	violations = append(violations, checkGoalkeepers(sched, players)...)
	violations = append(violations, checkMinutesCoverage(sched, players)...)

	// Soft checks
	violations = append(violations, checkFairness(cfg, sched)...)

	return violations, nil
}

func readSchedule(cfg *config.Config, f *excelize.File) (*schedule.Schedule, error) {
	periods, err := readPeriods(cfg, f)
	if err != nil {
		return nil, err
	}
	subs, err := readSubstitutions(f)
	if err != nil {
		return nil, err
	}
	minutes, err := readMinutes(f)
	if err != nil {
		return nil, err
	}
	return &schedule.Schedule{Periods: periods, Substitutions: subs, Minutes: minutes}, nil
}

func readPeriods(cfg *config.Config, f *excelize.File) ([]schedule.Period, error) {
	rows, err := f.GetRows("Lineup")
	if err != nil {
		return nil, fmt.Errorf("reading Lineup: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Lineup is empty")
	}

	// Header row: Period, Half, Start, End, GK, <slots...>, Bench
	tmpl := cfg.Template()
	keys := tmpl.Keys()
	header := rows[0]
	if len(header) != len(keys)+6 {
		return nil, fmt.Errorf("Lineup has %d columns, formation needs %d", len(header), len(keys)+6)
	}
	for i, key := range keys {
		if header[i+5] != key {
			return nil, fmt.Errorf("Lineup column %d is %q, want %q", i+6, header[i+5], key)
		}
	}

	var periods []schedule.Period
	for i, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		rowNum := i + 2
		cell := func(c int) string {
			if c < len(row) {
				return strings.TrimSpace(row[c])
			}
			return ""
		}

		nums := make([]int, 3)
		for c := range nums {
			n, err := strconv.Atoi(cell(c + 1))
			if err != nil {
				return nil, fmt.Errorf("Lineup row %d: %s %q is not a number", rowNum, header[c+1], cell(c+1))
			}
			nums[c] = n
		}

		p := schedule.Period{
			Label:      cell(0),
			Number:     len(periods) + 1,
			Half:       nums[0],
			Start:      nums[1],
			End:        nums[2],
			Goalkeeper: cell(4),
			Lineup:     schedule.NewLineup(tmpl),
		}
		p.Index = p.Number
		if p.Half == 2 {
			p.Index -= cfg.PeriodsPerHalf()
		}
		for k := range keys {
			if name := cell(k + 5); name != "" {
				p.Lineup[k].Player = name
				p.Lineup[k].Filled = true
			}
		}
		if bench := cell(len(keys) + 5); bench != "" {
			for _, name := range strings.Split(bench, ",") {
				p.Bench = append(p.Bench, strings.TrimSpace(name))
			}
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func readSubstitutions(f *excelize.File) ([]schedule.Substitution, error) {
	rows, err := f.GetRows("Substitutions")
	if err != nil {
		return nil, fmt.Errorf("reading Substitutions: %w", err)
	}

	var subs []schedule.Substitution
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("Substitutions row %d: expected 5 columns, got %d", i+1, len(row))
		}
		minute, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("Substitutions row %d: minute %q is not a number", i+1, row[0])
		}
		subs = append(subs, schedule.Substitution{
			Minute: minute,
			Kind:   schedule.SubstitutionKind(row[1]),
			Slot:   row[2],
			Out:    row[3],
			In:     row[4],
		})
	}
	return subs, nil
}

func readMinutes(f *excelize.File) ([]schedule.PlayerMinutes, error) {
	rows, err := f.GetRows("Minutes")
	if err != nil {
		return nil, fmt.Errorf("reading Minutes: %w", err)
	}

	// Header row: Player, Target, Minutes, 1st half, 2nd half
	var out []schedule.PlayerMinutes
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("Minutes row %d: expected 5 columns, got %d", i+1, len(row))
		}
		nums := make([]int, 4)
		for c := range nums {
			n, err := strconv.Atoi(strings.TrimSpace(row[c+1]))
			if err != nil {
				return nil, fmt.Errorf("Minutes row %d: %s %q is not a number", i+1, minutesColumns[c], row[c+1])
			}
			nums[c] = n
		}
		out = append(out, schedule.PlayerMinutes{
			Name:       row[0],
			Target:     nums[0],
			Minutes:    nums[1],
			FirstHalf:  nums[2],
			SecondHalf: nums[3],
		})
	}
	return out, nil
}

var minutesColumns = []string{"target", "minutes", "1st half", "2nd half"}

// checkInvariants runs the planner's own verification over the parsed
// workbook and reports each problem separately.
func checkInvariants(sched *schedule.Schedule) []Violation {
	err := schedule.Verify(sched)
	if err == nil {
		return nil
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	var violations []Violation
	for _, e := range errs {
		v := Violation{Type: "error", Message: e.Error()}

		var sub *schedule.InvalidSubstitutionError
		var inc *schedule.InconsistencyError
		switch {
		case errors.As(e, &sub):
			v.Sheet, v.Row = "Substitutions", substitutionRow(sched, sub.Minute, sub.Slot)
		case errors.As(e, &inc):
			v.Sheet, v.Row = locate(sched, inc.Where)
		}
		violations = append(violations, v)
	}
	return violations
}

func substitutionRow(sched *schedule.Schedule, minute int, slot string) int {
	for i, s := range sched.Substitutions {
		if s.Minute == minute && (slot == "" || s.Slot == slot) {
			return i + 2
		}
	}
	return 0
}

// locate maps a period label or player name to its sheet row.
func locate(sched *schedule.Schedule, where string) (string, int) {
	for i, p := range sched.Periods {
		if p.Label == where {
			return "Lineup", i + 2
		}
	}
	for i, m := range sched.Minutes {
		if m.Name == where {
			return "Minutes", i + 2
		}
	}
	return "", 0
}

func checkPlayers(sched *schedule.Schedule, players []roster.Player) []Violation {
	known := make(map[string]roster.Player, len(players))
	for _, p := range players {
		known[p.Name] = p
	}

	var violations []Violation
	reported := make(map[string]bool)
	check := func(sheet string, row int, name string) {
		if name == "" || reported[name] {
			return
		}
		p, ok := known[name]
		switch {
		case !ok:
			reported[name] = true
			violations = append(violations, Violation{
				Sheet: sheet, Row: row, Type: "error",
				Message: fmt.Sprintf("%s is not on the roster", name),
			})
		case p.Absent:
			reported[name] = true
			violations = append(violations, Violation{
				Sheet: sheet, Row: row, Type: "error",
				Message: fmt.Sprintf("%s is marked absent", name),
			})
		}
	}

	for i, p := range sched.Periods {
		check("Lineup", i+2, p.Goalkeeper)
		for _, name := range p.Lineup.Players() {
			check("Lineup", i+2, name)
		}
		for _, name := range p.Bench {
			check("Lineup", i+2, name)
		}
	}
	for i, s := range sched.Substitutions {
		check("Substitutions", i+2, s.Out)
		check("Substitutions", i+2, s.In)
	}
	return violations
}

func checkGoalkeepers(sched *schedule.Schedule, players []roster.Player) []Violation {
	known := make(map[string]roster.Player, len(players))
	for _, p := range players {
		known[p.Name] = p
	}

	var violations []Violation
	for i, p := range sched.Periods {
		k, ok := known[p.Goalkeeper]
		if !ok || k.CanKeep() {
			continue
		}
		violations = append(violations, Violation{
			Sheet: "Lineup", Row: i + 2, Type: "error",
			Message: fmt.Sprintf("%s is in goal but is not a goalkeeper", p.Goalkeeper),
		})
	}
	return violations
}

func checkMinutesCoverage(sched *schedule.Schedule, players []roster.Player) []Violation {
	listed := make(map[string]bool)
	for _, m := range sched.Minutes {
		listed[m.Name] = true
	}

	var violations []Violation
	for _, p := range roster.Available(players) {
		if !listed[p.Name] {
			violations = append(violations, Violation{
				Sheet: "Minutes", Type: "error",
				Message: fmt.Sprintf("%s has no minutes row", p.Name),
			})
		}
	}
	return violations
}

// checkFairness warns about idle players, players short of target by more
// than the fairness threshold, and a minutes spread the planner would not
// call fair.
func checkFairness(cfg *config.Config, sched *schedule.Schedule) []Violation {
	var violations []Violation
	for i, m := range sched.Minutes {
		switch {
		case m.Minutes == 0:
			violations = append(violations, Violation{
				Sheet: "Minutes", Row: i + 2, Type: "warning",
				Message: fmt.Sprintf("%s does not play", m.Name),
			})
		case m.Target-m.Minutes > cfg.FairnessThreshold:
			violations = append(violations, Violation{
				Sheet: "Minutes", Row: i + 2, Type: "warning",
				Message: fmt.Sprintf("%s plays %d of %d target minutes", m.Name, m.Minutes, m.Target),
			})
		}
	}

	// Same measure as the planner's Fair flag: a keeper in goal all match
	// is left out.
	m := schedule.ComputeMetrics(nil, sched.Periods, sched.Minutes)
	if m.MinutesVariance > cfg.FairnessThreshold {
		violations = append(violations, Violation{
			Sheet: "Minutes", Type: "warning",
			Message: fmt.Sprintf("minutes spread %d exceeds fairness threshold %d", m.MinutesVariance, cfg.FairnessThreshold),
		})
	}
	return violations
}
