package models

import "time"

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusAccepted  = "accepted"
	BookingStatusDeclined  = "declined"
	BookingStatusCancelled = "cancelled"
)

// Booking links a specific provider to a work order for the direct-hire path.
// The work order relationship is exclusive one-to-one.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	WorkOrderID string    `bson:"work_order_id" json:"work_order_id"`
	ProviderID  string    `bson:"provider_id" json:"provider_id"`
	RequesterID string    `bson:"requester_id" json:"requester_id"`
	Status      string    `bson:"status" json:"status"`
	Message     string    `bson:"message" json:"message"` // free-text summary of the agreed terms
	Ref         string    `bson:"ref" json:"ref"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
