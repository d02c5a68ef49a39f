//go:build integration

package order

import (
	"context"
	"testing"
	"time"

	"dishtalgia-backend/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMongoRepository_Lifecycle(t *testing.T) {
	repo := NewMongoRepository(dbtest.Setup(t))
	ctx := context.Background()
	require.NoError(t, repo.CreateIndexes(ctx))

	now := time.Now().UTC().Truncate(time.Millisecond)
	o := &Order{
		OrderNumber:   "ORD-20250101-1",
		UserEmail:     "a@example.com",
		Items:         []Item{{ID: "i1", ProductID: 1, ProductName: "Original Banana Pudding", Price: 8, Quantity: 1}},
		Subtotal:      8,
		Tax:           0.64,
		Total:         8.64,
		PaymentStatus: PaymentPending,
		PaymentMethod: MethodPayPal,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Insert(ctx, o))
	assert.False(t, o.ID.IsZero())

	dup := *o
	dup.ID = primitive.NilObjectID
	assert.ErrorIs(t, repo.Insert(ctx, &dup), ErrDuplicateNumber)

	matched, modified, err := repo.UpdatePayment(ctx, o.ID, "b@example.com", PaymentUpdate{Details: map[string]interface{}{"id": "x"}, Status: PaymentCompleted})
	require.NoError(t, err)
	assert.False(t, matched)
	assert.False(t, modified)

	matched, modified, err = repo.UpdatePayment(ctx, o.ID, "a@example.com", PaymentUpdate{Details: map[string]interface{}{"id": "x"}, Status: PaymentCompleted})
	require.NoError(t, err)
	assert.True(t, matched)
	assert.True(t, modified)

	got, err := repo.FindForUser(ctx, "a@example.com", bson.M{"orderNumber": "ORD-20250101-1"})
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, got.PaymentStatus)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.Equal(t, "x", got.PaymentDetails["id"])

	_, err = repo.FindForUser(ctx, "b@example.com", bson.M{"_id": o.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	orders, total, err := repo.ListByUser(ctx, "a@example.com", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)

	ok, err := repo.SetStatus(ctx, o.ID, StatusPending, bson.M{"status": StatusShipped})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.SetStatus(ctx, o.ID, StatusProcessing, bson.M{"status": StatusShipped})
	require.NoError(t, err)
	assert.True(t, ok)
}
