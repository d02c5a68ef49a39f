package payment

import (
	"context"
	"errors"
)

// ErrCaptureFailed wraps every failure to capture funds with the provider.
var ErrCaptureFailed = errors.New("payment capture failed")

// Capture is the provider's answer to a capture request. ID is the capture
// id when the provider returned one, else the provider order id. Status is
// the raw provider status, e.g. COMPLETED.
type Capture struct {
	ID      string
	OrderID string
	Status  string
	Details map[string]interface{}
}

type Capturer interface {
	Capture(ctx context.Context, providerOrderID string) (*Capture, error)
}

func failedStatus(status string) bool {
	switch status {
	case "FAILED", "DECLINED", "VOIDED":
		return true
	}
	return false
}
