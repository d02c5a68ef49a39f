package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dishtalgia-backend/internal/account"
	"dishtalgia-backend/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrMissingFields = errors.New("all fields are required")
	ErrInvalidEmail  = errors.New("invalid email address")
)

const StatusNew = "new"

type Metadata struct {
	UserAgent string `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Referrer  string `bson:"referrer,omitempty" json:"referrer,omitempty"`
}

type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	Status    string             `bson:"status" json:"status"`
	IP        string             `bson:"ip" json:"ip"`
	Metadata  Metadata           `bson:"metadata" json:"metadata"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Submission is what the form posts, plus request metadata.
type Submission struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	IP        string
	UserAgent string
	Referrer  string
}

type Repository interface {
	Insert(ctx context.Context, m *Message) error
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *database.DB) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.ContactsCollection)}
}

func (r *MongoRepository) Insert(ctx context.Context, m *Message) error {
	res, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = id
	}
	return nil
}

func (r *MongoRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create contact indexes: %w", err)
	}
	return nil
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, now: time.Now}
}

func (s *Service) Submit(ctx context.Context, in Submission) (*Message, error) {
	m := &Message{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
		Status:  StatusNew,
		IP:      in.IP,
		Metadata: Metadata{
			UserAgent: in.UserAgent,
			Referrer:  in.Referrer,
		},
	}
	if m.Name == "" || m.Email == "" || m.Subject == "" || m.Message == "" {
		return nil, ErrMissingFields
	}
	if !account.ValidEmail(m.Email) {
		return nil, ErrInvalidEmail
	}
	m.Email = strings.ToLower(m.Email)
	if m.IP == "" {
		m.IP = "unknown"
	}
	now := s.now()
	m.CreatedAt, m.UpdatedAt = now, now

	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("contact message received", slog.String("id", m.ID.Hex()), slog.String("subject", m.Subject))
	return m, nil
}
