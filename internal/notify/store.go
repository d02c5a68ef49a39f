package notify

import (
	"context"
	"fmt"

	"dishtalgia-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	Insert(ctx context.Context, a *FailedAttempt) error
}

type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *database.DB) *MongoStore {
	return &MongoStore{collection: db.Collection(database.FailedOrdersCollection)}
}

func (s *MongoStore) Insert(ctx context.Context, a *FailedAttempt) error {
	res, err := s.collection.InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to insert failed order attempt: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

func (s *MongoStore) CreateIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "paypalOrderId", Value: 1}}, Options: options.Index().SetName("paypal_order_id")},
	})
	if err != nil {
		return fmt.Errorf("failed to create failed order indexes: %w", err)
	}
	return nil
}
