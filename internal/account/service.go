package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists    = errors.New("user with this email already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidInput  = errors.New("validation failed")
	ErrWrongPassword = errors.New("current password is incorrect")
)

const (
	MinNameLength     = 2
	MinPasswordLength = 6

	passwordCost = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
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

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if len([]rune(name)) < MinNameLength {
		return nil, fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, MinNameLength)
	}
	if !ValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	u := &User{
		SchemaVersion: SchemaVersion,
		Name:          name,
		Email:         email,
		Password:      string(hashed),
		Role:          RoleUser,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("user registered", slog.String("userId", u.ID.Hex()))
	return u, nil
}

// Current returns the stored user for the session email.
func (s *Service) Current(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// UpdateProfile writes the given fields, creating the user document when
// none exists yet for the email.
func (s *Service) UpdateProfile(ctx context.Context, email string, in ProfileUpdate) (*User, error) {
	set := bson.M{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len([]rune(name)) < MinNameLength {
			return nil, fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, MinNameLength)
		}
		set["name"] = name
	}
	if in.Phone != nil {
		set["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		addr := *in.Address
		if addr.Country == "" {
			addr.Country = DefaultCountry
		}
		set["address"] = addr
	}

	return s.repo.UpsertProfile(ctx, NormalizeEmail(email), set, s.now())
}

func (s *Service) ChangePassword(ctx context.Context, email, current, next string) error {
	if len(next) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	email = NormalizeEmail(email)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(current)) != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), passwordCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.SetPassword(ctx, email, string(hashed), s.now())
}
