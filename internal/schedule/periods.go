package schedule

import (
	"fmt"

	"github.com/derekprior/lineup/internal/config"
)

// SplitMatch divides the match into halves and each half into equal periods.
// The returned periods carry timing and labels only.
func SplitMatch(cfg *config.Config) []Period {
	perHalf := cfg.PeriodsPerHalf()
	dur := cfg.Match.PeriodMinutes

	var periods []Period
	minute := 0
	for half := 1; half <= 2; half++ {
		for i := 1; i <= perHalf; i++ {
			periods = append(periods, Period{
				Label:  periodLabel(half, i),
				Number: len(periods) + 1,
				Half:   half,
				Index:  i,
				Start:  minute,
				End:    minute + dur,
			})
			minute += dur
		}
	}
	return periods
}

func periodLabel(half, index int) string {
	h := "1st"
	if half == 2 {
		h = "2nd"
	}
	return fmt.Sprintf("%s half, period %d", h, index)
}

// periodAt returns the index of the period containing minute, or -1.
func periodAt(periods []Period, minute int) int {
	for i, p := range periods {
		if minute >= p.Start && minute < p.End {
			return i
		}
	}
	return -1
}
