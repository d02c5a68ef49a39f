package catalog

import (
	"context"
	"errors"
	"fmt"

	"dishtalgia-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Upsert(ctx context.Context, p *Product) error
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *database.DB) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.ProductsCollection)}
}

func (m *MongoRepository) List(ctx context.Context) ([]Product, error) {
	cur, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products := []Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m *MongoRepository) GetByID(ctx context.Context, id int) (*Product, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return m.findOne(ctx, bson.M{"slug": slug})
}

func (m *MongoRepository) findOne(ctx context.Context, filter bson.M) (*Product, error) {
	var p Product
	if err := m.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (m *MongoRepository) Upsert(ctx context.Context, p *Product) error {
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

// Seed writes the default catalog.
func Seed(ctx context.Context, repo Repository) (int, error) {
	products := DefaultProducts()
	for i := range products {
		if err := repo.Upsert(ctx, &products[i]); err != nil {
			return i, err
		}
	}
	return len(products), nil
}
