package bookingRepo

import (
	"context"

	"taskly/database"
	"taskly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists direct-hire bookings.
type BookingRepository interface {
	Create(ctx context.Context, b models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByWorkOrderID(ctx context.Context, workOrderID string) (*models.Booking, error)
	DeleteByID(ctx context.Context, id string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
