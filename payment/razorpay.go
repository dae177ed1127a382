package payment

import (
	"context"
	"fmt"
	"strconv"

	razorpay "github.com/razorpay/razorpay-go"
)

// orderAPI and paymentAPI are the parts of the Razorpay SDK resources used here.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type paymentAPI interface {
	Fetch(paymentID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	orders   orderAPI
	payments paymentAPI
	secret   string
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{
		orders:   client.Order,
		payments: client.Payment,
		secret:   keySecret,
	}
}

func (r *Razorpay) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := call(ctx, func() (map[string]interface{}, error) {
		return r.orders.Create(data, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrGateway, err)
	}
	return toGatewayOrder(body), nil
}

func (r *Razorpay) FetchOrder(ctx context.Context, orderID string) (*GatewayOrder, error) {
	body, err := call(ctx, func() (map[string]interface{}, error) {
		return r.orders.Fetch(orderID, nil, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch order %s: %w", ErrGateway, orderID, err)
	}
	return toGatewayOrder(body), nil
}

func (r *Razorpay) FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	body, err := call(ctx, func() (map[string]interface{}, error) {
		return r.payments.Fetch(paymentID, nil, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch payment %s: %w", ErrGateway, paymentID, err)
	}
	return &GatewayPayment{
		ID:       str(body["id"]),
		OrderID:  str(body["order_id"]),
		Amount:   integer(body["amount"]),
		Currency: str(body["currency"]),
		Method:   str(body["method"]),
		Status:   str(body["status"]),
		Raw:      body,
	}, nil
}

func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(r.secret, orderID, paymentID, signature)
}

// call runs a blocking SDK request but stops waiting once ctx is done. The SDK
// has no context support, so the request itself keeps running until its own
// HTTP timeout.
func call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := fn()
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.body, res.err
	}
}

func toGatewayOrder(body map[string]interface{}) *GatewayOrder {
	return &GatewayOrder{
		ID:       str(body["id"]),
		Amount:   integer(body["amount"]),
		Currency: str(body["currency"]),
		Receipt:  str(body["receipt"]),
		Status:   str(body["status"]),
		Notes:    notes(body["notes"]),
	}
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func integer(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

// notes accepts the object form; the API sends an empty array when an order
// has no notes.
func notes(v any) map[string]string {
	out := map[string]string{}
	if m, ok := v.(map[string]interface{}); ok {
		for k, val := range m {
			out[k] = str(val)
		}
	}
	return out
}
