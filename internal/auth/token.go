package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidToken = errors.New("invalid session token")

// Session is the authenticated identity carried by a request.
type Session struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"expires"`
}

type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	secret    []byte
	maxAge    time.Duration
	updateAge time.Duration
	now       func() time.Time
}

func NewTokens(secret string, maxAge, updateAge time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), maxAge: maxAge, updateAge: updateAge, now: time.Now}
}

func (t *Tokens) MaxAge() time.Duration {
	return t.maxAge
}

// Issue signs a fresh HS256 token for the session identity.
func (t *Tokens) Issue(s Session) (string, *Session, error) {
	now := t.now()
	claims := JWTClaims{
		Email: s.Email,
		Name:  s.Name,
		Role:  s.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   s.UserID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.maxAge).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.IssuedAt = time.Unix(claims.IssuedAt, 0)
	s.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	return signed, &s, nil
}

func (t *Tokens) Parse(tokenStr string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == 0 || t.now().Unix() > claims.ExpiresAt {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}

	return &Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      claims.Role,
		IssuedAt:  time.Unix(claims.IssuedAt, 0),
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// NeedsRenewal reports whether the session is old enough to be re-issued.
func (t *Tokens) NeedsRenewal(s *Session) bool {
	if t.updateAge <= 0 {
		return false
	}
	return t.now().Sub(s.IssuedAt) >= t.updateAge
}
