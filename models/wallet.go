package models

import "time"

// WalletAccount is a requester's ledger balance.
type WalletAccount struct {
	UserID    string    `bson:"id" json:"id"`
	Balance   float64   `bson:"balance" json:"balance"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EscrowHold statuses.
const (
	HoldStatusActive   = "active"
	HoldStatusReleased = "released"
	HoldStatusCaptured = "captured"
)

// EscrowHold is the wallet-side record of funds reserved for a work order.
// The hire flow only creates and observes holds; release and capture happen
// in the completion flows outside this service.
type EscrowHold struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Amount      float64   `bson:"amount" json:"amount"`
	WorkOrderID string    `bson:"work_order_id" json:"work_order_id"`
	BookingID   string    `bson:"booking_id" json:"booking_id"`
	Ref         string    `bson:"ref" json:"ref"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
