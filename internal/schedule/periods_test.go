package schedule

import (
	"testing"

	"github.com/derekprior/lineup/internal/config"
)

func TestSplitMatch(t *testing.T) {
	cfg := config.Default()
	periods := SplitMatch(&cfg)

	if len(periods) != 4 {
		t.Fatalf("periods = %d, want 4", len(periods))
	}

	want := []struct {
		label      string
		half       int
		start, end int
	}{
		{"1st half, period 1", 1, 0, 15},
		{"1st half, period 2", 1, 15, 30},
		{"2nd half, period 1", 2, 30, 45},
		{"2nd half, period 2", 2, 45, 60},
	}
	for i, w := range want {
		p := periods[i]
		if p.Label != w.label {
			t.Errorf("period %d label = %q, want %q", i, p.Label, w.label)
		}
		if p.Half != w.half {
			t.Errorf("period %d half = %d, want %d", i, p.Half, w.half)
		}
		if p.Start != w.start || p.End != w.end {
			t.Errorf("period %d = [%d,%d), want [%d,%d)", i, p.Start, p.End, w.start, w.end)
		}
		if p.Number != i+1 {
			t.Errorf("period %d number = %d, want %d", i, p.Number, i+1)
		}
	}
}

func TestSplitMatchSinglePeriodHalves(t *testing.T) {
	cfg := config.Default()
	cfg.Match = config.Match{TotalMinutes: 50, PeriodMinutes: 25}
	periods := SplitMatch(&cfg)

	if len(periods) != 2 {
		t.Fatalf("periods = %d, want 2", len(periods))
	}
	if periods[1].Start != 25 || periods[1].End != 50 || periods[1].Half != 2 {
		t.Errorf("second period = %+v", periods[1])
	}
}

func TestPeriodAt(t *testing.T) {
	cfg := config.Default()
	periods := SplitMatch(&cfg)

	tests := []struct {
		minute int
		want   int
	}{
		{0, 0}, {14, 0}, {15, 1}, {37, 2}, {59, 3}, {60, -1}, {-1, -1},
	}
	for _, tt := range tests {
		if got := periodAt(periods, tt.minute); got != tt.want {
			t.Errorf("periodAt(%d) = %d, want %d", tt.minute, got, tt.want)
		}
	}
}

func TestPeriodMidpoint(t *testing.T) {
	p := Period{Start: 15, End: 30}
	if p.Midpoint() != 22 {
		t.Errorf("midpoint = %d, want 22", p.Midpoint())
	}
	if !p.Inside(22) || p.Inside(15) || p.Inside(30) {
		t.Error("Inside should exclude both boundaries")
	}
}
