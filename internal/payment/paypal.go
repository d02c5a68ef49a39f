package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"dishtalgia-backend/internal/config"

	"github.com/plutov/paypal/v4"
)

type PayPal struct {
	client *paypal.Client
	log    *slog.Logger

	mu      sync.Mutex
	hasAuth bool
}

// NewPayPal builds a client for the configured mode. The base URL may be
// overridden, which the tests use to point at a local server.
func NewPayPal(cfg config.PayPalConfig, baseURL string, log *slog.Logger) (*PayPal, error) {
	if baseURL == "" {
		baseURL = paypal.APIBaseSandBox
		if strings.EqualFold(cfg.Mode, "live") {
			baseURL = paypal.APIBaseLive
		}
	}
	c, err := paypal.NewClient(cfg.ClientID, cfg.Secret, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal client: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &PayPal{client: c, log: log}, nil
}

func (p *PayPal) authenticate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasAuth {
		return nil
	}
	if _, err := p.client.GetAccessToken(ctx); err != nil {
		return fmt.Errorf("%w: access token: %v", ErrCaptureFailed, err)
	}
	p.hasAuth = true
	return nil
}

func (p *PayPal) Capture(ctx context.Context, providerOrderID string) (*Capture, error) {
	if providerOrderID == "" {
		return nil, fmt.Errorf("%w: missing provider order id", ErrCaptureFailed)
	}
	if err := p.authenticate(ctx); err != nil {
		return nil, err
	}

	resp, err := p.client.CaptureOrder(ctx, providerOrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	details, err := toMap(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrCaptureFailed, err)
	}

	c := &Capture{
		ID:      captureID(details),
		OrderID: resp.ID,
		Status:  strings.ToUpper(resp.Status),
		Details: details,
	}
	if c.ID == "" {
		c.ID = resp.ID
	}
	if failedStatus(c.Status) {
		return nil, fmt.Errorf("%w: provider status %s", ErrCaptureFailed, c.Status)
	}

	p.log.Info("payment captured",
		slog.String("providerOrderId", providerOrderID),
		slog.String("captureId", c.ID),
		slog.String("status", c.Status))
	return c, nil
}

func toMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// captureID digs purchase_units[0].payments.captures[0].id out of the response.
func captureID(details map[string]interface{}) string {
	units, _ := details["purchase_units"].([]interface{})
	if len(units) == 0 {
		return ""
	}
	unit, _ := units[0].(map[string]interface{})
	payments, _ := unit["payments"].(map[string]interface{})
	captures, _ := payments["captures"].([]interface{})
	if len(captures) == 0 {
		return ""
	}
	first, _ := captures[0].(map[string]interface{})
	id, _ := first["id"].(string)
	return id
}
