package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	inserted []*FailedAttempt
	err      error
}

func (f *fakeStore) Insert(_ context.Context, a *FailedAttempt) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, a)
	return nil
}

type fakePublisher struct {
	published []*FailedAttempt
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, a *FailedAttempt) error {
	f.published = append(f.published, a)
	return f.err
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify_DefaultsAndPublish(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	n := NewNotifier(store, pub, quiet())
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	a, err := n.Notify(context.Background(), Report{PayPalOrderID: "PP-1", OrderNumber: "ORD-20250301-5"})
	require.NoError(t, err)

	assert.Equal(t, "Unknown error", a.Error)
	assert.Equal(t, fixed, a.Timestamp)
	assert.Equal(t, StatusUnresolved, a.Status)
	assert.Equal(t, fixed, a.CreatedAt)
	require.Len(t, store.inserted, 1)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "PP-1", pub.published[0].PayPalOrderID)
}

func TestNotify_RequiresPayPalOrderID(t *testing.T) {
	store := &fakeStore{}
	n := NewNotifier(store, nil, quiet())

	_, err := n.Notify(context.Background(), Report{Error: "boom"})
	assert.ErrorIs(t, err, ErrMissingPayPalOrderID)
	assert.Empty(t, store.inserted)
}

func TestNotify_StoreFailureIsReturned(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(&fakeStore{err: errors.New("db down")}, pub, quiet())

	_, err := n.Notify(context.Background(), Report{PayPalOrderID: "PP-1"})
	assert.Error(t, err)
	assert.Empty(t, pub.published)
}

func TestNotify_PublishFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{}
	n := NewNotifier(store, &fakePublisher{err: errors.New("broker down")}, quiet())

	_, err := n.Notify(context.Background(), Report{PayPalOrderID: "PP-1", Error: "update failed"})
	require.NoError(t, err)
	assert.Len(t, store.inserted, 1)
}
