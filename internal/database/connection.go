package database

import (
	"context"
	"fmt"
	"time"

	"dishtalgia-backend/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the repositories.
const (
	UsersCollection        = "users"
	ProductsCollection     = "products"
	CartsCollection        = "carts"
	OrdersCollection       = "orders"
	ContactsCollection     = "contacts"
	FailedOrdersCollection = "failed_order_attempts"
)

// DB owns the pooled Mongo client for the lifetime of the process.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the client, verifies it with a ping and returns the handle
// that repositories receive at construction time.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*DB, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetCompressors([]string{"zlib"})
	if cfg.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(cfg.MinPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// HealthCheck performs a simple ping against the primary.
func (d *DB) HealthCheck(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Status describes the database for the diagnostics endpoint.
type Status struct {
	Database             string   `json:"database"`
	Collections          []string `json:"collections"`
	HasOrdersCollection  bool     `json:"hasOrdersCollection"`
	OrdersCollectionSize *int64   `json:"ordersCollectionSize,omitempty"`
}

func (d *DB) Status(ctx context.Context) (*Status, error) {
	names, err := d.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	st := &Status{Database: d.db.Name(), Collections: names}
	for _, n := range names {
		if n == OrdersCollection {
			st.HasOrdersCollection = true
			break
		}
	}
	if st.HasOrdersCollection {
		count, err := d.db.Collection(OrdersCollection).CountDocuments(ctx, bson.D{})
		if err != nil {
			return nil, fmt.Errorf("failed to count orders: %w", err)
		}
		st.OrdersCollectionSize = &count
	}
	return st, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
