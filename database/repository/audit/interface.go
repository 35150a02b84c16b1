package auditRepo

import (
	"context"

	"taskly/database"
	"taskly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRepository appends to the audit trail. Events are append-only.
type AuditRepository interface {
	Append(ctx context.Context, ev models.AuditEvent) error
	GetByRefID(ctx context.Context, refID string) ([]models.AuditEvent, error)
}

type mongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo returns an AuditRepository backed by MongoDB.
func NewMongoAuditRepo() AuditRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoAuditRepo{
		coll: db.Collection("audit_events"),
	}
}
