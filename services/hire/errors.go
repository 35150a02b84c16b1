package hire

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a hire session does not exist or
	// has expired.
	ErrSessionNotFound = errors.New("hire session not found or expired")

	// ErrNotSessionOwner is returned when a caller touches a session they
	// did not start.
	ErrNotSessionOwner = errors.New("hire session belongs to another user")

	// ErrSubmissionInFlight is returned when Submit is called while a
	// previous submission for the same session is still running.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrAlreadySubmitted is returned when Submit is called on a session
	// that already completed successfully.
	ErrAlreadySubmitted = errors.New("hire session already submitted")

	// ErrNotAtReview is returned when Submit is called from any step other
	// than Review.
	ErrNotAtReview = errors.New("submission is only allowed from the review step")

	// ErrSessionTerminal is returned when a terminal session is mutated.
	ErrSessionTerminal = errors.New("hire session already finished")
)

// ValidationError is a step-local validation failure. It is recovered by the
// wizard; it never reaches the saga.
type ValidationError struct {
	Step    Step   `json:"step"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Step, e.Field, e.Message)
}

// InsufficientBalanceError blocks progression at the Payment step. It is a
// precondition failure, not a saga failure.
type InsufficientBalanceError struct {
	Balance  float64 `json:"balance"`
	Required float64 `json:"required"`
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %.2f, need %.2f", e.Balance, e.Required)
}
