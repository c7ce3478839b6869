package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallSchedule(t *testing.T) *Schedule {
	t.Helper()
	periods, l := smallMatch()
	subs, err := Derive(periods, l, rebalanceConfig())
	require.NoError(t, err)
	return &Schedule{
		Periods:       periods,
		Substitutions: subs,
		Minutes: []PlayerMinutes{
			{Name: "K", Minutes: 20, FirstHalf: 10, SecondHalf: 10},
			{Name: "A", Minutes: 15, FirstHalf: 10, SecondHalf: 5},
			{Name: "B", Minutes: 15, FirstHalf: 5, SecondHalf: 10},
			{Name: "C", Minutes: 10, FirstHalf: 5, SecondHalf: 5},
		},
	}
}

func TestVerifyAcceptsDerivedSchedule(t *testing.T) {
	assert.NoError(t, Verify(smallSchedule(t)))
}

func TestVerifyRejects(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(s *Schedule)
		want   error
	}{
		{
			name:   "no periods",
			tamper: func(s *Schedule) { s.Periods = nil },
			want:   ErrInconsistent,
		},
		{
			name:   "empty slot",
			tamper: func(s *Schedule) { s.Periods[0].Lineup.clear(0) },
			want:   ErrInconsistent,
		},
		{
			name: "player in two slots",
			tamper: func(s *Schedule) {
				s.Periods[1].Lineup.assign(1, "A")
			},
			want: ErrInconsistent,
		},
		{
			name:   "keeper on the field",
			tamper: func(s *Schedule) { s.Periods[0].Lineup.assign(0, "K") },
			want:   ErrInconsistent,
		},
		{
			name:   "missing goalkeeper",
			tamper: func(s *Schedule) { s.Periods[1].Goalkeeper = "" },
			want:   ErrInconsistent,
		},
		{
			name: "keeper changes inside a half",
			tamper: func(s *Schedule) {
				s.Periods[1].Half = 1
				s.Periods[1].Goalkeeper = "K2"
			},
			want: ErrInconsistent,
		},
		{
			name:   "reported minutes drift",
			tamper: func(s *Schedule) { s.Minutes[1].Minutes++ },
			want:   ErrInconsistent,
		},
		{
			name: "minutes moved between halves",
			tamper: func(s *Schedule) {
				s.Minutes[1].FirstHalf, s.Minutes[1].SecondHalf = s.Minutes[1].SecondHalf, s.Minutes[1].FirstHalf
			},
			want: ErrInconsistent,
		},
		{
			name:   "wrong outgoing player",
			tamper: func(s *Schedule) { s.Substitutions[0].Out = "A" },
			want:   ErrInvalidSubstitution,
		},
		{
			name:   "incoming player already on",
			tamper: func(s *Schedule) { s.Substitutions[0].In = "A" },
			want:   ErrInvalidSubstitution,
		},
		{
			name:   "rebalance on a boundary",
			tamper: func(s *Schedule) { s.Substitutions[0].Minute = 10 },
			want:   ErrInvalidSubstitution,
		},
		{
			name:   "rotation inside a period",
			tamper: func(s *Schedule) { s.Substitutions[1].Minute = 12 },
			want:   ErrInvalidSubstitution,
		},
		{
			name:   "substitution after the final whistle",
			tamper: func(s *Schedule) { s.Substitutions[2].Minute = 25 },
			want:   ErrInvalidSubstitution,
		},
		{
			name:   "missing rotation",
			tamper: func(s *Schedule) { s.Substitutions = append(s.Substitutions[:1], s.Substitutions[2:]...) },
			want:   ErrInvalidSubstitution,
		},
		{
			name:   "missing keeper change",
			tamper: func(s *Schedule) { s.Periods[1].Goalkeeper = "K2" },
			want:   ErrInvalidSubstitution,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := smallSchedule(t)
			tt.tamper(s)
			assert.ErrorIs(t, Verify(s), tt.want)
		})
	}
}

func TestVerifyAcceptsKeeperChange(t *testing.T) {
	s := smallSchedule(t)
	s.Periods[1].Goalkeeper = "K2"
	s.Substitutions = append([]Substitution{{Minute: 10, Slot: "GK", Out: "K", In: "K2", Kind: KindKeeper}}, s.Substitutions...)
	s.Minutes[0].Minutes, s.Minutes[0].SecondHalf = 10, 0
	s.Minutes = append(s.Minutes, PlayerMinutes{Name: "K2", Minutes: 10, SecondHalf: 10})

	assert.NoError(t, Verify(s))
}
