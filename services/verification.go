package services

import (
	"context"
	"errors"
	"fmt"

	"fabstore/events"
	"fabstore/models"
	"fabstore/payment"
	"fabstore/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const StatusVerified = "verified"

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type VerificationResult struct {
	Status        string             `json:"status"`
	OrderStatus   models.OrderStatus `json:"orderStatus,omitempty"`
	TransactionID string             `json:"transactionId"`
}

type PaymentService struct {
	products     repository.ProductRepository
	orders       repository.OrderRepository
	transactions repository.TransactionRepository
	gateway      payment.Gateway
	publisher    events.Publisher
	log          zerolog.Logger
}

func NewPaymentService(repos Repositories, gateway payment.Gateway, publisher events.Publisher, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		products:     repos.Products,
		orders:       repos.Orders,
		transactions: repos.Transactions,
		gateway:      gateway,
		publisher:    publisher,
		log:          log.With().Str("component", "payment").Logger(),
	}
}

// VerifyPayment checks the callback signature, records the payment as a
// transaction and, for a captured or authorized payment, takes the order's
// stock and marks it paid. Repeating the call for the same payment id
// updates the same transaction and never takes stock twice.
func (s *PaymentService) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerificationResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.log.Warn().Str("gateway_order_id", req.OrderID).Str("payment_id", req.PaymentID).Msg("signature mismatch")
		return nil, ErrSignatureMismatch
	}

	var (
		gatewayOrder   *payment.GatewayOrder
		gatewayPayment *payment.GatewayPayment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := s.gateway.FetchOrder(gctx, req.OrderID)
		gatewayOrder = o
		return err
	})
	g.Go(func() error {
		p, err := s.gateway.FetchPayment(gctx, req.PaymentID)
		gatewayPayment = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if gatewayPayment.OrderID != "" && gatewayPayment.OrderID != req.OrderID {
		return nil, invalid("Payment does not belong to order")
	}

	order, err := s.orders.GetByPaymentIntent(ctx, req.OrderID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	txn := &models.Transaction{
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
		UserID:    gatewayOrder.Notes["userId"],
		Amount:    FromMinorUnits(gatewayPayment.Amount),
		Currency:  gatewayPayment.Currency,
		Method:    gatewayPayment.Method,
		Status:    gatewayPayment.Status,
		Metadata:  gatewayPayment.Raw,
	}
	if order != nil {
		txn.LocalOrderID = order.ID.Hex()
		if txn.UserID == "" {
			txn.UserID = order.UserID
		}
	}

	stored, created, err := s.transactions.Upsert(ctx, txn)
	if err != nil {
		return nil, err
	}

	log := s.log.With().
		Str("payment_id", req.PaymentID).
		Str("gateway_order_id", req.OrderID).
		Str("user_id", txn.UserID).
		Logger()

	result := &VerificationResult{
		Status:        StatusVerified,
		TransactionID: stored.ID.Hex(),
	}
	if order == nil {
		log.Warn().Msg("no local order for verified payment")
	} else {
		if want := (Quote{Total: order.TotalAmount}).MinorUnits(); gatewayPayment.Amount != want {
			log.Warn().Int64("paid", gatewayPayment.Amount).Int64("expected", want).Msg("payment amount differs from order total")
		}
		status, err := s.settleOrder(ctx, order, gatewayPayment.Status, log)
		if err != nil {
			return nil, err
		}
		result.OrderStatus = status
	}

	log.Info().
		Bool("new_transaction", created).
		Str("payment_status", gatewayPayment.Status).
		Str("order_status", string(result.OrderStatus)).
		Msg("payment verified")

	publish(ctx, s.publisher, s.log, events.NewPaymentVerified(events.PaymentVerified{
		PaymentID:      req.PaymentID,
		GatewayOrderID: req.OrderID,
		OrderID:        txn.LocalOrderID,
		UserID:         txn.UserID,
		Amount:         txn.Amount,
		Currency:       txn.Currency,
		Status:         txn.Status,
		OrderStatus:    string(result.OrderStatus),
	}))

	return result, nil
}

func stockLines(items []models.OrderItem) []repository.StockLine {
	lines := make([]repository.StockLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, repository.StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// settleOrder advances a pending order for a successful payment. Stock is
// taken first, all lines or none; the status move is a compare-and-set from
// pending, and the stock goes back if another delivery got there first.
// A stock shortfall leaves the order pending without failing the call.
func (s *PaymentService) settleOrder(ctx context.Context, order *models.Order, paymentStatus string, log zerolog.Logger) (models.OrderStatus, error) {
	target, ok := models.OrderStatusForPayment(paymentStatus)
	if !ok || order.Status == target {
		return order.Status, nil
	}
	if order.Status != models.StatusPending || !models.CanTransition(order.Status, target) {
		log.Warn().Str("order_status", string(order.Status)).Msg("payment received for order that is no longer pending")
		return order.Status, nil
	}

	lines := stockLines(order.Items)
	if err := s.products.DecrementStock(ctx, lines); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("paid order cannot be fulfilled from stock")
			return order.Status, nil
		}
		return "", fmt.Errorf("failed to take stock: %w", err)
	}

	updated, err := s.orders.CompareAndSetStatus(ctx, order.ID, models.StatusPending, target)
	if err == nil {
		return updated.Status, nil
	}

	if rerr := s.products.RestoreStock(ctx, lines); rerr != nil {
		log.Error().Err(rerr).Str("order_id", order.ID.Hex()).Msg("failed to restore stock")
	}
	if !errors.Is(err, repository.ErrStatusConflict) {
		return "", fmt.Errorf("failed to mark order %s: %w", target, err)
	}

	current, gerr := s.orders.GetByID(ctx, order.ID)
	if gerr != nil {
		return "", gerr
	}
	return current.Status, nil
}
