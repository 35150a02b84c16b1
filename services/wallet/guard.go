package wallet

import (
	"context"
	"fmt"
)

// Affordability is a read-only snapshot used by the wizard's Payment step.
// It is advisory only: a concurrent hold can invalidate it between the read
// and submission, so the saga relies on PlaceHold's atomic check instead.
type Affordability struct {
	Balance          float64 `json:"balance"`
	HoldAmount       float64 `json:"hold_amount"`
	Sufficient       bool    `json:"sufficient"`
	BalanceAfterHold float64 `json:"balance_after_hold"`
}

// HasSufficientBalance reports whether balance covers the hold amount.
func HasSufficientBalance(balance, holdAmount float64) bool {
	return balance >= holdAmount
}

// BalanceAfterHold computes the balance remaining once the hold is placed.
// Callers must have checked sufficiency first; the result is clamped at zero
// so display code never shows a negative balance.
func BalanceAfterHold(balance, holdAmount float64) float64 {
	remaining := balance - holdAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CheckAffordability reads the current balance and evaluates it against the
// hold amount. It never mutates anything.
func CheckAffordability(ctx context.Context, client Client, userID string, holdAmount float64) (*Affordability, error) {
	balance, err := client.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	sufficient := HasSufficientBalance(balance, holdAmount)
	result := &Affordability{
		Balance:    balance,
		HoldAmount: holdAmount,
		Sufficient: sufficient,
	}
	if sufficient {
		result.BalanceAfterHold = BalanceAfterHold(balance, holdAmount)
	} else {
		result.BalanceAfterHold = balance
	}
	return result, nil
}
