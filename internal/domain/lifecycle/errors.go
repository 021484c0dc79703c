package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a status transition is not in the transition table
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus is returned when a status is not a valid claim status
	ErrInvalidStatus = errors.New("invalid status")

	// ErrMissingReason is returned when a transition requires a reason and none was given
	ErrMissingReason = errors.New("reason required")
)

// InvalidTransitionError reports a (current, target) pair absent from the transition table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// MissingReasonError reports a rejection or amount override submitted without a reason.
type MissingReasonError struct {
	Target Status
}

func (e *MissingReasonError) Error() string {
	return fmt.Sprintf("transition to %s requires a non-empty reason", e.Target)
}

func (e *MissingReasonError) Unwrap() error {
	return ErrMissingReason
}
