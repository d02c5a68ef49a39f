package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"dishtalgia-backend/internal/notify"
	"dishtalgia-backend/internal/order"
	"dishtalgia-backend/internal/order/ordertest"
	"dishtalgia-backend/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	capture func(ctx context.Context, id string) (*payment.Capture, error)
}

func (f fakeCapturer) Capture(ctx context.Context, id string) (*payment.Capture, error) {
	return f.capture(ctx, id)
}

type fakeNotifier struct {
	reports []notify.Report
	err     error
}

func (f *fakeNotifier) Notify(ctx context.Context, r notify.Report) (*notify.FailedAttempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.reports = append(f.reports, r)
	if f.err != nil {
		return nil, f.err
	}
	return &notify.FailedAttempt{PayPalOrderID: r.PayPalOrderID, Status: notify.StatusUnresolved}, nil
}

func completed(_ context.Context, id string) (*payment.Capture, error) {
	return &payment.Capture{
		ID:      "CAP-1",
		OrderID: id,
		Status:  "COMPLETED",
		Details: map[string]interface{}{"id": id, "status": "COMPLETED"},
	}, nil
}

var items = []order.ItemInput{
	{ProductID: 1, ProductName: "Original Banana Pudding", SizeID: "regular", SizeName: "Regular (16oz)", Price: 8, Quantity: 2},
}

func setup(capture func(context.Context, string) (*payment.Capture, error)) (*Service, *ordertest.MemRepo, *fakeNotifier) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := ordertest.NewMemRepo()
	orders := order.NewService(repo, nil, nil, order.Options{TaxRate: 0.08}, log)
	n := &fakeNotifier{}
	return NewService(orders, fakeCapturer{capture: capture}, n, log), repo, n
}

func TestComplete_HappyPath(t *testing.T) {
	svc, repo, n := setup(completed)

	res, err := svc.Complete(context.Background(), "a@example.com", "PP-1", items)
	require.NoError(t, err)
	assert.True(t, res.PaymentUpdated)
	assert.Equal(t, "CAP-1", res.CaptureID)
	assert.NotEmpty(t, res.OrderNumber)

	stored := repo.All()
	require.Len(t, stored, 1)
	assert.Equal(t, order.PaymentCompleted, stored[0].PaymentStatus)
	assert.Equal(t, order.StatusProcessing, stored[0].Status)
	assert.Equal(t, "PP-1", stored[0].PaymentID)
	assert.Empty(t, n.reports)
}

func TestComplete_MissingProviderOrder(t *testing.T) {
	svc, repo, _ := setup(completed)

	_, err := svc.Complete(context.Background(), "a@example.com", " ", items)
	assert.ErrorIs(t, err, ErrMissingProviderOrder)
	assert.Empty(t, repo.All())
}

func TestComplete_CreateFailureAborts(t *testing.T) {
	captured := false
	svc, _, n := setup(func(ctx context.Context, id string) (*payment.Capture, error) {
		captured = true
		return completed(ctx, id)
	})

	_, err := svc.Complete(context.Background(), "a@example.com", "PP-1", nil)
	assert.ErrorIs(t, err, order.ErrNoItems)
	assert.False(t, captured)
	assert.Empty(t, n.reports)
}

func TestComplete_CaptureFailureLeavesOrderPending(t *testing.T) {
	svc, repo, n := setup(func(context.Context, string) (*payment.Capture, error) {
		return nil, payment.ErrCaptureFailed
	})

	_, err := svc.Complete(context.Background(), "a@example.com", "PP-1", items)
	assert.ErrorIs(t, err, payment.ErrCaptureFailed)

	stored := repo.All()
	require.Len(t, stored, 1)
	assert.Equal(t, order.PaymentPending, stored[0].PaymentStatus)
	assert.Empty(t, n.reports)
}

func TestComplete_UpdateFailureNotifiesAndKeepsOrder(t *testing.T) {
	svc, repo, n := setup(completed)
	repo.UpdatePaymentErr = errors.New("write conflict")

	res, err := svc.Complete(context.Background(), "a@example.com", "PP-1", items)
	require.NoError(t, err)
	assert.False(t, res.PaymentUpdated)

	stored := repo.All()
	require.Len(t, stored, 1)
	assert.Equal(t, order.PaymentPending, stored[0].PaymentStatus)
	assert.Equal(t, order.StatusProcessing, stored[0].Status)

	require.Len(t, n.reports, 1)
	assert.Equal(t, "PP-1", n.reports[0].PayPalOrderID)
	assert.Equal(t, stored[0].OrderNumber, n.reports[0].OrderNumber)
	assert.Contains(t, n.reports[0].Error, "write conflict")
}

func TestComplete_NotifierFailureIsSwallowed(t *testing.T) {
	svc, repo, n := setup(completed)
	repo.UpdatePaymentErr = errors.New("write conflict")
	n.err = errors.New("db down")

	res, err := svc.Complete(context.Background(), "a@example.com", "PP-1", items)
	require.NoError(t, err)
	assert.False(t, res.PaymentUpdated)
	assert.Len(t, n.reports, 1)
}

func TestComplete_RequestCancelledAfterCaptureStillRecordsFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, repo, n := setup(func(c context.Context, id string) (*payment.Capture, error) {
		cancel()
		return completed(c, id)
	})

	res, err := svc.Complete(ctx, "a@example.com", "PP-1", items)
	require.NoError(t, err)
	assert.False(t, res.PaymentUpdated)
	assert.Equal(t, "CAP-1", res.CaptureID)

	stored := repo.All()
	require.Len(t, stored, 1)
	assert.Equal(t, order.PaymentPending, stored[0].PaymentStatus)

	require.Len(t, n.reports, 1)
	assert.Equal(t, stored[0].OrderNumber, n.reports[0].OrderNumber)
	assert.Contains(t, n.reports[0].Error, context.Canceled.Error())
}
