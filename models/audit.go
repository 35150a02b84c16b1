package models

import "time"

// AuditEvent is an append-only record of a completed hire flow action.
type AuditEvent struct {
	ID        string            `bson:"id" json:"id"`
	Actor     string            `bson:"actor" json:"actor"`
	Action    string            `bson:"action" json:"action"`
	RefID     string            `bson:"ref_id" json:"ref_id"`
	Details   map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
