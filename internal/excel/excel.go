package excel

import (
	"fmt"
	"strings"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/schedule"
	"github.com/xuri/excelize/v2"
)

// Generate creates a workbook with the period lineups, the substitution
// timeline, per-player minutes and a summary sheet.
func Generate(cfg *config.Config, sched *schedule.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	if err := writeLineupSheet(f, cfg, sched); err != nil {
		return nil, fmt.Errorf("writing lineup sheet: %w", err)
	}
	if err := writeSubstitutionSheet(f, sched); err != nil {
		return nil, fmt.Errorf("writing substitution sheet: %w", err)
	}
	if err := writeMinutesSheet(f, sched); err != nil {
		return nil, fmt.Errorf("writing minutes sheet: %w", err)
	}
	if err := writeSummarySheet(f, cfg, sched); err != nil {
		return nil, fmt.Errorf("writing summary sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

type styles struct {
	header int
	cell   int
	center int
}

func newStyles(f *excelize.File) styles {
	var s styles
	s.header, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	s.cell, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Family: "Arial"},
	})
	s.center, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 14, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return s
}

func writeHeaders(f *excelize.File, sheet string, headers []string, st styles) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if st.header != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), st.header)
	}
}

func writeLineupSheet(f *excelize.File, cfg *config.Config, sched *schedule.Schedule) error {
	sheet := "Lineup"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)

	// Headers: Period, Half, Start, End, GK, <slot1>, <slot2>, ..., Bench
	keys := cfg.Template().Keys()
	headers := []string{"Period", "Half", "Start", "End", "GK"}
	headers = append(headers, keys...)
	headers = append(headers, "Bench")
	writeHeaders(f, sheet, headers, st)

	for i, p := range sched.Periods {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), p.Label)
		f.SetCellValue(sheet, cellRef(2, row), p.Half)
		f.SetCellValue(sheet, cellRef(3, row), p.Start)
		f.SetCellValue(sheet, cellRef(4, row), p.End)
		f.SetCellValue(sheet, cellRef(5, row), p.Goalkeeper)
		for k, key := range keys {
			if idx := p.Lineup.Index(key); idx >= 0 && p.Lineup[idx].Filled {
				f.SetCellValue(sheet, cellRef(k+6, row), p.Lineup[idx].Player)
			}
		}
		f.SetCellValue(sheet, cellRef(len(headers), row), strings.Join(p.Bench, ", "))

		if st.cell != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), st.cell)
			f.SetCellStyle(sheet, cellRef(2, row), cellRef(len(headers)-1, row), st.center)
			f.SetCellStyle(sheet, cellRef(len(headers), row), cellRef(len(headers), row), st.cell)
		}
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "D", 8)
	f.SetColWidth(sheet, "E", colLetter(len(headers)-1), 14)
	last := colLetter(len(headers))
	f.SetColWidth(sheet, last, last, 40)
	return nil
}

func writeSubstitutionSheet(f *excelize.File, sched *schedule.Schedule) error {
	sheet := "Substitutions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)

	headers := []string{"Minute", "Kind", "Slot", "Out", "In"}
	writeHeaders(f, sheet, headers, st)

	for i, s := range sched.Substitutions {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), s.Minute)
		f.SetCellValue(sheet, cellRef(2, row), string(s.Kind))
		f.SetCellValue(sheet, cellRef(3, row), s.Slot)
		f.SetCellValue(sheet, cellRef(4, row), s.Out)
		f.SetCellValue(sheet, cellRef(5, row), s.In)
		if st.cell != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), st.cell)
		}
	}

	widths := map[string]float64{"A": 10, "B": 12, "C": 10, "D": 18, "E": 18}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	// Rebalance rows get a light yellow fill
	if len(sched.Substitutions) > 0 {
		yellow, _ := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFEB9C"}},
			Font: &excelize.Font{Size: 14, Family: "Arial"},
		})
		lastRow := len(sched.Substitutions) + 1
		f.SetConditionalFormat(sheet, fmt.Sprintf("A2:E%d", lastRow), []excelize.ConditionalFormatOptions{
			{
				Type:     "formula",
				Criteria: fmt.Sprintf(`$B2="%s"`, schedule.KindRebalance),
				Format:   &yellow,
			},
		})
	}
	return nil
}

func writeMinutesSheet(f *excelize.File, sched *schedule.Schedule) error {
	sheet := "Minutes"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)

	headers := []string{"Player", "Target", "Minutes", "1st half", "2nd half"}
	writeHeaders(f, sheet, headers, st)

	for i, m := range sched.Minutes {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), m.Name)
		f.SetCellValue(sheet, cellRef(2, row), m.Target)
		f.SetCellValue(sheet, cellRef(3, row), m.Minutes)
		f.SetCellValue(sheet, cellRef(4, row), m.FirstHalf)
		f.SetCellValue(sheet, cellRef(5, row), m.SecondHalf)
		if st.cell != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), st.cell)
			f.SetCellStyle(sheet, cellRef(2, row), cellRef(5, row), st.center)
		}
	}

	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "E", 12)

	// Players short of their target get light red
	if len(sched.Minutes) > 0 {
		redFill, _ := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
			Font: &excelize.Font{Size: 14, Family: "Arial"},
		})
		lastRow := len(sched.Minutes) + 1
		f.SetConditionalFormat(sheet, fmt.Sprintf("C2:C%d", lastRow), []excelize.ConditionalFormatOptions{
			{
				Type:     "formula",
				Criteria: "$C2<$B2",
				Format:   &redFill,
			},
		})
	}
	return nil
}

func writeSummarySheet(f *excelize.File, cfg *config.Config, sched *schedule.Schedule) error {
	sheet := "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)
	writeHeaders(f, sheet, []string{"Item", "Value"}, st)

	fair := "No"
	if sched.Metrics.Fair {
		fair = "Yes"
	}
	rows := [][2]any{
		{"Schedule ID", sched.ID},
		{"Strategy", sched.Strategy},
		{"Match minutes", cfg.Match.TotalMinutes},
		{"Period minutes", cfg.Match.PeriodMinutes},
		{"Average team strength", fmt.Sprintf("%.2f", sched.Metrics.AverageTeamStrength)},
		{"1st half strength", fmt.Sprintf("%.2f", sched.Metrics.FirstHalfStrength)},
		{"2nd half strength", fmt.Sprintf("%.2f", sched.Metrics.SecondHalfStrength)},
		{"Minutes spread", sched.Metrics.MinutesVariance},
		{"Fairness std dev", fmt.Sprintf("%.2f", sched.Metrics.FairnessStdDev)},
		{"Fair", fair},
		{"Substitutions", len(sched.Substitutions)},
	}
	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), r[0])
		f.SetCellValue(sheet, cellRef(2, row), r[1])
		if st.cell != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(2, row), st.cell)
		}
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 42)
	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
