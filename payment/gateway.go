// Package payment wraps the payment gateway: remote order creation, order and
// payment lookups, and callback signature verification. Nothing is retried;
// gateway failures go straight back to the caller.
package payment

import (
	"context"
	"errors"
)

var ErrGateway = errors.New("payment gateway error")

// GatewayOrder is the provider-side intent to charge a fixed amount.
type GatewayOrder struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

type GatewayPayment struct {
	ID       string         `json:"id"`
	OrderID  string         `json:"order_id"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Method   string         `json:"method"`
	Status   string         `json:"status"`
	Raw      map[string]any `json:"-"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
