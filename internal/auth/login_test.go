package auth

import (
	"context"
	"errors"
	"testing"

	"dishtalgia-backend/internal/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type lookupFunc func(ctx context.Context, email string) (*account.User, error)

func (f lookupFunc) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	return f(ctx, email)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	id := primitive.NewObjectID()

	a := NewAuthenticator(lookupFunc(func(_ context.Context, email string) (*account.User, error) {
		if email != "ada@example.com" {
			return nil, account.ErrUserNotFound
		}
		return &account.User{ID: id, Email: email, Name: "Ada", Password: string(hash)}, nil
	}))

	s, err := a.Login(context.Background(), " ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), s.UserID)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, account.RoleUser, s.Role)

	_, err = a.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoreError(t *testing.T) {
	a := NewAuthenticator(lookupFunc(func(context.Context, string) (*account.User, error) {
		return nil, errors.New("db down")
	}))

	_, err := a.Login(context.Background(), "ada@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
