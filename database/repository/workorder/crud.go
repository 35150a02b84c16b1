package workorderRepo

import (
	"context"
	"errors"
	"time"

	"taskly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a work order does not exist.
var ErrNotFound = errors.New("work order not found")

// Create inserts a new work order and returns its ID.
func (r *mongoWorkOrderRepo) Create(ctx context.Context, wo models.WorkOrder) (string, error) {
	if wo.ID == "" {
		wo.ID = uuid.New().String()
	}
	wo.CreatedAt = time.Now()
	wo.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, wo)
	if err != nil {
		return "", err
	}
	return wo.ID, nil
}

// GetByID returns a work order by its ID.
func (r *mongoWorkOrderRepo) GetByID(ctx context.Context, id string) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&wo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// UpdateStatus sets the status field of a work order.
func (r *mongoWorkOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a work order. A missing record is not an error so that
// saga compensation tolerates "already gone".
func (r *mongoWorkOrderRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	return err
}
