package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const EventFailedOrder = "OrderFinalizationFailed"

type Publisher interface {
	Publish(ctx context.Context, a *FailedAttempt) error
}

type failedOrderEvent struct {
	EventType     string    `json:"eventType"`
	PayPalOrderID string    `json:"paypalOrderId"`
	OrderID       string    `json:"orderId,omitempty"`
	OrderNumber   string    `json:"orderNumber,omitempty"`
	Error         string    `json:"error"`
	Timestamp     time.Time `json:"timestamp"`
}

// RabbitPublisher pushes failed order alerts onto a durable queue.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func DialRabbit(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", queue, err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, a *FailedAttempt) error {
	body, err := json.Marshal(failedOrderEvent{
		EventType:     EventFailedOrder,
		PayPalOrderID: a.PayPalOrderID,
		OrderID:       a.OrderID,
		OrderNumber:   a.OrderNumber,
		Error:         a.Error,
		Timestamp:     a.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", EventFailedOrder, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(pubCtx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *RabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}
