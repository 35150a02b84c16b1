package wallet

import "errors"

var (
	// ErrInsufficientFunds is returned when a hold or balance check fails
	// because the account does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrServiceUnavailable is returned for transient wallet failures.
	ErrServiceUnavailable = errors.New("wallet service unavailable")

	// ErrInvalidAmount is returned for zero or negative amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)
