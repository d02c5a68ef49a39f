// Package checkout runs the order, capture and payment update steps of a
// purchase in order on the server.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dishtalgia-backend/internal/notify"
	"dishtalgia-backend/internal/order"
	"dishtalgia-backend/internal/payment"
)

var ErrMissingProviderOrder = errors.New("missing paypalOrderId")

// reportTimeout bounds the failure record write, which runs even when the
// request context is already done.
const reportTimeout = 10 * time.Second

type Orders interface {
	Create(ctx context.Context, userEmail string, items []order.ItemInput, paymentID string) (*order.Order, error)
	UpdatePayment(ctx context.Context, userEmail, orderID string, details map[string]interface{}, paymentStatus string) (bool, error)
}

type FailureNotifier interface {
	Notify(ctx context.Context, r notify.Report) (*notify.FailedAttempt, error)
}

type Result struct {
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	CaptureID      string `json:"captureId"`
	CaptureStatus  string `json:"captureStatus"`
	PaymentUpdated bool   `json:"paymentUpdated"`
}

type Service struct {
	orders   Orders
	payments payment.Capturer
	notifier FailureNotifier
	log      *slog.Logger
}

func NewService(orders Orders, payments payment.Capturer, notifier FailureNotifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{orders: orders, payments: payments, notifier: notifier, log: log}
}

// Complete creates the order, captures the provider order and attaches the
// capture to the order. A failure creating the order or capturing the
// payment is returned. A failure attaching the capture is reported to the
// notifier and the result carries PaymentUpdated false.
func (s *Service) Complete(ctx context.Context, userEmail, providerOrderID string, items []order.ItemInput) (*Result, error) {
	providerOrderID = strings.TrimSpace(providerOrderID)
	if providerOrderID == "" {
		return nil, ErrMissingProviderOrder
	}

	o, err := s.orders.Create(ctx, userEmail, items, providerOrderID)
	if err != nil {
		return nil, err
	}
	res := &Result{OrderID: o.ID.Hex(), OrderNumber: o.OrderNumber}

	capture, err := s.payments.Capture(ctx, providerOrderID)
	if err != nil {
		s.log.Error("payment capture failed",
			slog.String("orderNumber", o.OrderNumber),
			slog.String("paypalOrderId", providerOrderID),
			slog.Any("err", err))
		return nil, err
	}
	res.CaptureID = capture.ID
	res.CaptureStatus = capture.Status

	updated, err := s.orders.UpdatePayment(ctx, userEmail, res.OrderID, capture.Details, capture.Status)
	if err != nil {
		s.log.Error("failed to update order payment",
			slog.String("orderNumber", o.OrderNumber),
			slog.String("paypalOrderId", providerOrderID),
			slog.Any("err", err))
		s.reportFailure(ctx, userEmail, providerOrderID, o, err)
		return res, nil
	}
	res.PaymentUpdated = updated
	return res, nil
}

func (s *Service) reportFailure(ctx context.Context, userEmail, providerOrderID string, o *order.Order, cause error) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()

	_, err := s.notifier.Notify(ctx, notify.Report{
		PayPalOrderID: providerOrderID,
		OrderID:       o.ID.Hex(),
		OrderNumber:   o.OrderNumber,
		UserEmail:     userEmail,
		Error:         cause.Error(),
		Timestamp:     time.Now(),
	})
	if err != nil {
		s.log.Error("failed to record failed order attempt",
			slog.String("paypalOrderId", providerOrderID),
			slog.Any("err", err))
	}
}
