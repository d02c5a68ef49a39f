//go:build integration

package account

import (
	"context"
	"testing"
	"time"

	"dishtalgia-backend/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoRepository(t *testing.T) {
	repo := NewMongoRepository(dbtest.Setup(t))
	ctx := context.Background()
	require.NoError(t, repo.CreateIndexes(ctx))
	now := time.Now().UTC()

	u := &User{SchemaVersion: SchemaVersion, Name: "Ada", Email: "ada@example.com", Password: "hash", Role: RoleUser, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))
	assert.False(t, u.ID.IsZero())
	assert.ErrorIs(t, repo.Create(ctx, &User{Email: "ada@example.com"}), ErrUserExists)

	got, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.Password)

	updated, err := repo.UpsertProfile(ctx, "ada@example.com", bson.M{"phone": "555-0100"}, now)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "hash", updated.Password)

	created, err := repo.UpsertProfile(ctx, "new@example.com", bson.M{"name": "Grace"}, now)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, created.Role)
	assert.Equal(t, SchemaVersion, created.SchemaVersion)

	require.NoError(t, repo.SetPassword(ctx, "ada@example.com", "hash2", now))
	assert.ErrorIs(t, repo.SetPassword(ctx, "ghost@example.com", "x", now), ErrUserNotFound)
	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
