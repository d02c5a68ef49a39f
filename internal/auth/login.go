package auth

import (
	"context"
	"errors"
	"strings"

	"dishtalgia-backend/internal/account"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*account.User, error)
}

type Authenticator struct {
	users UserLookup
}

func NewAuthenticator(users UserLookup) *Authenticator {
	return &Authenticator{users: users}
}

// Login checks the credentials against the stored bcrypt hash.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	email = account.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.Password == "" || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	role := u.Role
	if strings.TrimSpace(role) == "" {
		role = account.RoleUser
	}
	return &Session{UserID: u.ID.Hex(), Email: u.Email, Name: u.Name, Role: role}, nil
}
