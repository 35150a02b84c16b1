package workorderRepo

import (
	"context"

	"taskly/database"
	"taskly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// WorkOrderRepository persists work orders. Each call is independently
// atomic; there is no multi-record transaction, which is why the hire saga
// carries its own compensation logic.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo models.WorkOrder) (string, error)
	GetByID(ctx context.Context, id string) (*models.WorkOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteByID(ctx context.Context, id string) error
}

type mongoWorkOrderRepo struct {
	coll *mongo.Collection
}

// NewMongoWorkOrderRepo returns a WorkOrderRepository backed by MongoDB.
func NewMongoWorkOrderRepo() WorkOrderRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoWorkOrderRepo{
		coll: db.Collection("work_orders"),
	}
}
