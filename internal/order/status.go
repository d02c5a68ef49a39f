package order

import (
	"fmt"
	"strings"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusShipped, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// CanTransition reports whether an order may move from one status to another.
// Delivered and cancelled orders are terminal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParsePaymentStatus normalises a stored or provider supplied payment status.
// An empty value means the capture completed.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "COMPLETED":
		return PaymentCompleted, nil
	case "PENDING", "APPROVED", "CREATED", "SAVED", "PAYER_ACTION_REQUIRED":
		return PaymentPending, nil
	case "FAILED", "DECLINED", "VOIDED":
		return PaymentFailed, nil
	case "REFUNDED":
		return PaymentRefunded, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, s)
}
