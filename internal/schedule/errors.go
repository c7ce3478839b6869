package schedule

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every typed error below unwraps to one of them.
var (
	ErrValidation          = errors.New("invalid input")
	ErrNoGoalkeeper        = errors.New("no eligible goalkeeper")
	ErrInsufficientRoster  = errors.New("insufficient roster")
	ErrUnfillablePosition  = errors.New("unfillable position")
	ErrInvalidSubstitution = errors.New("invalid substitution")
	ErrInconsistent        = errors.New("inconsistent schedule")
)

// ValidationError reports malformed config or roster input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NoGoalkeeperError reports that none of the available players can keep.
type NoGoalkeeperError struct {
	Available int
}

func (e *NoGoalkeeperError) Error() string {
	return fmt.Sprintf("none of the %d available players is an eligible goalkeeper", e.Available)
}

func (e *NoGoalkeeperError) Unwrap() error { return ErrNoGoalkeeper }

// InsufficientRosterError reports fewer available players than a goalkeeper
// plus every field slot.
type InsufficientRosterError struct {
	Available int
	Required  int
}

func (e *InsufficientRosterError) Error() string {
	return fmt.Sprintf("%d players available, %d required (%d short)",
		e.Available, e.Required, e.Required-e.Available)
}

func (e *InsufficientRosterError) Unwrap() error { return ErrInsufficientRoster }

// UnfillablePositionError reports a slot left empty after borrowing and
// backfilling. Period is 1-based; zero means the period is unknown.
type UnfillablePositionError struct {
	Period int
	Slot   string
}

func (e *UnfillablePositionError) Error() string {
	if e.Period == 0 {
		return fmt.Sprintf("slot %s cannot be filled", e.Slot)
	}
	return fmt.Sprintf("period %d: slot %s cannot be filled", e.Period, e.Slot)
}

func (e *UnfillablePositionError) Unwrap() error { return ErrUnfillablePosition }

// InvalidSubstitutionError reports a substitution that does not match the
// lineup it edits.
type InvalidSubstitutionError struct {
	Minute int
	Slot   string
	Reason string
}

func (e *InvalidSubstitutionError) Error() string {
	return fmt.Sprintf("substitution at minute %d, slot %s: %s", e.Minute, e.Slot, e.Reason)
}

func (e *InvalidSubstitutionError) Unwrap() error { return ErrInvalidSubstitution }

// InconsistencyError reports a schedule whose periods or minute totals break
// an invariant. Built schedules never carry one; it shows up when checking
// a schedule read back from elsewhere.
type InconsistencyError struct {
	Where  string
	Reason string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Where, e.Reason)
}

func (e *InconsistencyError) Unwrap() error { return ErrInconsistent }

// Kind names the error category for API and CLI output.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNoGoalkeeper):
		return "no_goalkeeper"
	case errors.Is(err, ErrInsufficientRoster):
		return "insufficient_roster"
	case errors.Is(err, ErrUnfillablePosition):
		return "unfillable_position"
	case errors.Is(err, ErrInvalidSubstitution):
		return "invalid_substitution"
	case errors.Is(err, ErrInconsistent):
		return "inconsistent"
	}
	return "internal"
}
