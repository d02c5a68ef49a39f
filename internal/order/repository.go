package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dishtalgia-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateNumber is returned by Insert when the order number is taken.
var ErrDuplicateNumber = errors.New("order number already exists")

// PaymentUpdate is the set of fields written once a capture is known.
type PaymentUpdate struct {
	Details map[string]interface{}
	Status  PaymentStatus
}

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	UpdatePayment(ctx context.Context, id primitive.ObjectID, userEmail string, u PaymentUpdate) (matched bool, modified bool, err error)
	ListByUser(ctx context.Context, userEmail string, skip, limit int64) ([]Order, int64, error)
	FindForUser(ctx context.Context, userEmail string, filter bson.M) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, from Status, set bson.M) (bool, error)
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *database.DB) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.OrdersCollection)}
}

func (m *MongoRepository) Insert(ctx context.Context, o *Order) error {
	res, err := m.collection.InsertOne(ctx, o)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateNumber
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = id
	}
	return nil
}

func (m *MongoRepository) UpdatePayment(ctx context.Context, id primitive.ObjectID, userEmail string, u PaymentUpdate) (bool, bool, error) {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": id, "userEmail": userEmail},
		bson.M{"$set": bson.M{
			"paymentDetails": u.Details,
			"paymentStatus":  u.Status,
			"status":         StatusProcessing,
			"updatedAt":      time.Now(),
		}},
	)
	if err != nil {
		return false, false, fmt.Errorf("failed to update order payment: %w", err)
	}
	return res.MatchedCount > 0, res.ModifiedCount > 0, nil
}

func (m *MongoRepository) ListByUser(ctx context.Context, userEmail string, skip, limit int64) ([]Order, int64, error) {
	filter := bson.M{"userEmail": userEmail}

	total, err := m.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, total, nil
}

func (m *MongoRepository) FindForUser(ctx context.Context, userEmail string, filter bson.M) (*Order, error) {
	f := bson.M{"userEmail": userEmail}
	for k, v := range filter {
		f[k] = v
	}
	return m.findOne(ctx, f)
}

func (m *MongoRepository) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return m.findOne(ctx, bson.M{"orderNumber": orderNumber})
}

func (m *MongoRepository) findOne(ctx context.Context, filter bson.M) (*Order, error) {
	var o Order
	if err := m.collection.FindOne(ctx, filter).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// SetStatus applies set only while the order is still in status from.
func (m *MongoRepository) SetStatus(ctx context.Context, id primitive.ObjectID, from Status, set bson.M) (bool, error) {
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to set order status: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
