package models

import "time"

// WorkOrder statuses.
const (
	WorkOrderStatusOpen       = "open"
	WorkOrderStatusInProgress = "in_progress"
	WorkOrderStatusCompleted  = "completed"
	WorkOrderStatusCancelled  = "cancelled"
)

// WorkOrder is the durable record describing the task to be performed.
type WorkOrder struct {
	ID          string    `bson:"id" json:"id"`
	RequesterID string    `bson:"requester_id" json:"requester_id"`
	Title       string    `bson:"title" json:"title"`
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description" json:"description"`
	Location    string    `bson:"location" json:"location"`
	PayAmount   float64   `bson:"pay_amount" json:"pay_amount"`
	Priority    bool      `bson:"priority,omitempty" json:"priority,omitempty"`
	Status      string    `bson:"status" json:"status"`
	Ref         string    `bson:"ref" json:"ref"` // submission reference shared by the saga's records
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
