package wallet

import "context"

// HoldRef associates an escrow hold with the records it reserves funds for.
type HoldRef struct {
	WorkOrderID string
	BookingID   string
	Ref         string
}

// Client is the wallet collaborator. PlaceHold is the authoritative
// sufficiency gate: it must reject atomically at hold time rather than trust
// any earlier balance read.
type Client interface {
	// GetBalance returns the user's current available balance.
	GetBalance(ctx context.Context, userID string) (float64, error)
	// PlaceHold atomically reserves amount against the user's balance and
	// returns the hold ID. Returns ErrInsufficientFunds when the balance does
	// not cover the amount at the moment of the hold.
	PlaceHold(ctx context.Context, userID string, amount float64, ref HoldRef) (string, error)
	// Credit adds funds to the user's balance (top-up) and returns the new
	// balance.
	Credit(ctx context.Context, userID string, amount float64) (float64, error)
}
