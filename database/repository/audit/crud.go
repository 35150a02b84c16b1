package auditRepo

import (
	"context"
	"time"

	"taskly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Append inserts a new audit event.
func (r *mongoAuditRepo) Append(ctx context.Context, ev models.AuditEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, ev)
	return err
}

// GetByRefID fetches all audit events associated with a submission reference.
func (r *mongoAuditRepo) GetByRefID(ctx context.Context, refID string) ([]models.AuditEvent, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"ref_id": refID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.AuditEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
