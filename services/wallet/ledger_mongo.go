package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskly/database"
	"taskly/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLedgerClient is the default wallet backend: account balances and
// escrow holds in Mongo. The hold is an atomic conditional decrement so a
// concurrent hire by the same requester can never overdraw the account, no
// matter what the earlier advisory check saw.
type MongoLedgerClient struct {
	accounts *mongo.Collection
	holds    *mongo.Collection
}

// NewMongoLedgerClient returns a wallet Client backed by MongoDB.
func NewMongoLedgerClient() *MongoLedgerClient {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoLedgerClient{
		accounts: db.Collection("wallet_accounts"),
		holds:    db.Collection("escrow_holds"),
	}
}

// GetBalance returns the account's available balance. An account that has
// never been credited reads as zero.
func (c *MongoLedgerClient) GetBalance(ctx context.Context, userID string) (float64, error) {
	var account models.WalletAccount
	err := c.accounts.FindOne(ctx, bson.M{"id": userID}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return account.Balance, nil
}

// PlaceHold reserves amount against the account. The balance check and the
// decrement happen in one FindOneAndUpdate with a balance >= amount filter;
// a miss means insufficient funds at hold time.
func (c *MongoLedgerClient) PlaceHold(ctx context.Context, userID string, amount float64, ref HoldRef) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	filter := bson.M{"id": userID, "balance": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"balance": -amount},
		"$set": bson.M{"updated_at": time.Now()},
	}
	err := c.accounts.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInsufficientFunds
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	hold := models.EscrowHold{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      amount,
		WorkOrderID: ref.WorkOrderID,
		BookingID:   ref.BookingID,
		Ref:         ref.Ref,
		Status:      models.HoldStatusActive,
		CreatedAt:   time.Now(),
	}
	if _, err := c.holds.InsertOne(ctx, hold); err != nil {
		// The decrement already happened; put the funds back before failing.
		_, creditErr := c.accounts.UpdateOne(ctx, bson.M{"id": userID}, bson.M{
			"$inc": bson.M{"balance": amount},
			"$set": bson.M{"updated_at": time.Now()},
		})
		if creditErr != nil {
			return "", fmt.Errorf("%w: hold record failed and refund failed: %v", ErrServiceUnavailable, creditErr)
		}
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	return hold.ID, nil
}

// Credit adds funds to the account, creating it on first top-up, and returns
// the new balance.
func (c *MongoLedgerClient) Credit(ctx context.Context, userID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var account models.WalletAccount
	err := c.accounts.FindOneAndUpdate(ctx,
		bson.M{"id": userID},
		bson.M{
			"$inc": bson.M{"balance": amount},
			"$set": bson.M{"updated_at": time.Now()},
		},
		opts,
	).Decode(&account)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return account.Balance, nil
}
