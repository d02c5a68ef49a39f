package account

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

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpsertProfile(ctx context.Context, email string, set bson.M, now time.Time) (*User, error)
	SetPassword(ctx context.Context, email, hash string, now time.Time) error
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *database.DB) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.UsersCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, u *User) error {
	res, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *MongoRepository) UpsertProfile(ctx context.Context, email string, set bson.M, now time.Time) (*User, error) {
	set["updatedAt"] = now
	set["schemaVersion"] = SchemaVersion
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"role":          RoleUser,
			"emailVerified": false,
			"createdAt":     now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var u User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &u, nil
}

func (r *MongoRepository) SetPassword(ctx context.Context, email, hash string, now time.Time) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": hash, "updatedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *MongoRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}
