package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dishtalgia-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrCartNotFound = errors.New("cart not found")

type Repository interface {
	Get(ctx context.Context, userEmail string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Clear(ctx context.Context, userEmail string) error
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *database.DB) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.CartsCollection)}
}

func (m *MongoRepository) Get(ctx context.Context, userEmail string) (*Cart, error) {
	var c Cart
	err := m.collection.FindOne(ctx, bson.M{"userEmail": userEmail}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []Line{}
	}
	return &c, nil
}

func (m *MongoRepository) Save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now()
	_, err := m.collection.UpdateOne(ctx,
		bson.M{"userEmail": c.UserEmail},
		bson.M{"$set": bson.M{"items": c.Items, "updatedAt": c.UpdatedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (m *MongoRepository) Clear(ctx context.Context, userEmail string) error {
	_, err := m.collection.UpdateOne(ctx,
		bson.M{"userEmail": userEmail},
		bson.M{"$set": bson.M{"items": []Line{}, "updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userEmail", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updatedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60),
		},
	}
	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}
