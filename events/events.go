// Package events publishes domain events (order created, payment verified) to
// a message broker. Publishing is best effort: callers log failures and move on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	SubjectOrderCreated    = "order.created"
	SubjectPaymentVerified = "payment.verified"
)

type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type OrderCreated struct {
	OrderID        string          `json:"order_id"`
	GatewayOrderID string          `json:"gateway_order_id"`
	UserID         string          `json:"user_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PromoCode      string          `json:"promo_code,omitempty"`
}

type PaymentVerified struct {
	PaymentID      string          `json:"payment_id"`
	GatewayOrderID string          `json:"gateway_order_id"`
	OrderID        string          `json:"order_id,omitempty"`
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	OrderStatus    string          `json:"order_status"`
}

func NewOrderCreated(e OrderCreated) Event {
	return Event{Type: SubjectOrderCreated, Key: e.OrderID, OccurredAt: time.Now().UTC(), Data: e}
}

func NewPaymentVerified(e PaymentVerified) Event {
	return Event{Type: SubjectPaymentVerified, Key: e.PaymentID, OccurredAt: time.Now().UTC(), Data: e}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

func encode(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	return data, nil
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
