package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

var ErrMissingPayPalOrderID = errors.New("missing required field: paypalOrderId")

const unknownError = "Unknown error"

// Notifier records failed order attempts and, when a publisher is
// configured, raises an alert for them.
type Notifier struct {
	store     Store
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewNotifier accepts a nil publisher, in which case alerts are only logged.
func NewNotifier(store Store, publisher Publisher, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{store: store, publisher: publisher, log: log, now: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, r Report) (*FailedAttempt, error) {
	if strings.TrimSpace(r.PayPalOrderID) == "" {
		return nil, ErrMissingPayPalOrderID
	}

	now := n.now()
	a := &FailedAttempt{
		PayPalOrderID: r.PayPalOrderID,
		OrderID:       r.OrderID,
		OrderNumber:   r.OrderNumber,
		UserEmail:     r.UserEmail,
		Error:         r.Error,
		Timestamp:     r.Timestamp,
		Status:        StatusUnresolved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if a.Error == "" {
		a.Error = unknownError
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = now
	}

	if err := n.store.Insert(ctx, a); err != nil {
		return nil, err
	}

	n.log.Error("failed order attempt",
		slog.String("paypalOrderId", a.PayPalOrderID),
		slog.String("orderNumber", a.OrderNumber),
		slog.String("error", a.Error))

	if n.publisher != nil {
		if err := n.publisher.Publish(ctx, a); err != nil {
			n.log.Error("failed to publish failed order alert",
				slog.String("paypalOrderId", a.PayPalOrderID),
				slog.Any("err", err))
		}
	}
	return a, nil
}
