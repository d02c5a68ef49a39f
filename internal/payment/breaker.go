package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

type BreakerSettings struct {
	Name             string
	MaxFailures      uint32
	OpenTimeout      time.Duration
	CountingInterval time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "paypal-capture",
		MaxFailures:      5,
		OpenTimeout:      30 * time.Second,
		CountingInterval: time.Minute,
	}
}

// Breaker stops calling the provider after repeated failures.
type Breaker struct {
	next Capturer
	cb   *gobreaker.CircuitBreaker[*Capture]
}

func NewBreaker(next Capturer, s BreakerSettings, log *slog.Logger) *Breaker {
	if log == nil {
		log = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker[*Capture](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Interval:    s.CountingInterval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Capture(ctx context.Context, providerOrderID string) (*Capture, error) {
	c, err := b.cb.Execute(func() (*Capture, error) {
		return b.next.Capture(ctx, providerOrderID)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	return c, err
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
