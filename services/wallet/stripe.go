package wallet

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/customerbalancetransaction"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeGateway places escrow holds as manual-capture PaymentIntents. The
// user ID is the Stripe customer ID; the customer's credit balance acts as
// the available balance. Capture and release of the intent happen in the
// completion flows, not here.
type StripeGateway struct {
	Currency string
}

// NewStripeGateway returns a wallet Client backed by Stripe. The package
// level stripe.Key must already be set (done in main).
func NewStripeGateway() *StripeGateway {
	return &StripeGateway{Currency: string(stripe.CurrencyUSD)}
}

// GetBalance reads the customer's credit balance. Stripe stores credit as a
// negative balance in cents.
func (g *StripeGateway) GetBalance(ctx context.Context, userID string) (float64, error) {
	cust, err := customer.Get(userID, &stripe.CustomerParams{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	credit := float64(-cust.Balance) / 100
	if credit < 0 {
		return 0, nil
	}
	return credit, nil
}

// PlaceHold creates and confirms a manual-capture PaymentIntent for the
// amount. Stripe performs its own authorization at this point, so a decline
// here is the authoritative insufficient-funds signal.
func (g *StripeGateway) PlaceHold(ctx context.Context, userID string, amount float64, ref HoldRef) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(math.Round(amount * 100))),
		Currency:      stripe.String(g.Currency),
		Customer:      stripe.String(userID),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
	}
	params.AddMetadata("work_order_id", ref.WorkOrderID)
	params.AddMetadata("booking_id", ref.BookingID)
	params.AddMetadata("ref", ref.Ref)

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			switch stripeErr.Code {
			case stripe.ErrorCodeCardDeclined, stripe.ErrorCodeBalanceInsufficient:
				return "", ErrInsufficientFunds
			}
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return intent.ID, nil
}

// Credit tops up the customer's credit balance.
func (g *StripeGateway) Credit(ctx context.Context, userID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	params := &stripe.CustomerBalanceTransactionParams{
		Customer: stripe.String(userID),
		Amount:   stripe.Int64(-int64(math.Round(amount * 100))),
		Currency: stripe.String(g.Currency),
	}
	if _, err := customerbalancetransaction.New(params); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return g.GetBalance(ctx, userID)
}
