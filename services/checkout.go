package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fabstore/events"
	"fabstore/models"
	"fabstore/payment"
	"fabstore/promo"
	"fabstore/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type ShippingAddress struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Zip      string `json:"zip" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

type CreateOrderRequest struct {
	Cart      []CartLine      `json:"cart" validate:"required,min=1,dive"`
	PromoCode string          `json:"promoCode"`
	Shipping  ShippingAddress `json:"shipping" validate:"required"`
}

type CheckoutResult struct {
	GatewayOrder *payment.GatewayOrder `json:"gatewayOrder"`
	LocalOrderID string                `json:"localOrderId"`
	Quote        Quote                 `json:"quote"`
}

type CheckoutService struct {
	products  repository.ProductRepository
	orders    repository.OrderRepository
	addresses repository.AddressRepository
	gateway   payment.Gateway
	promos    *promo.Table
	publisher events.Publisher
	currency  string
	log       zerolog.Logger
}

func NewCheckoutService(repos Repositories, gateway payment.Gateway, promos *promo.Table, publisher events.Publisher, currency string, log zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		products:  repos.Products,
		orders:    repos.Orders,
		addresses: repos.Addresses,
		gateway:   gateway,
		promos:    promos,
		publisher: publisher,
		currency:  currency,
		log:       log.With().Str("component", "checkout").Logger(),
	}
}

// mergeLines folds repeated product ids into one line, keeping first-seen order.
func mergeLines(lines []CartLine) []CartLine {
	merged := make([]CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// priceLines resolves every line against the live catalog. Client prices are
// never trusted.
func (s *CheckoutService) priceLines(ctx context.Context, lines []CartLine) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		id, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, decimal.Zero, invalid("Invalid product")
		}

		product, err := s.products.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, decimal.Zero, invalid("Invalid product")
		}
		if err != nil {
			return nil, decimal.Zero, err
		}

		if line.Quantity > product.Stock {
			return nil, decimal.Zero, invalid("Exceeds stock")
		}

		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			Quantity:        line.Quantity,
			PriceAtPurchase: product.Price,
		})
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return items, subtotal, nil
}

func (s *CheckoutService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*CheckoutResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	lines := mergeLines(req.Cart)
	items, subtotal, err := s.priceLines(ctx, lines)
	if err != nil {
		return nil, err
	}
	quote := NewQuote(subtotal, req.PromoCode, s.promos)

	address := &models.Address{
		UserID:   userID,
		Type:     models.AddressShipping,
		FullName: req.Shipping.FullName,
		Phone:    req.Shipping.Phone,
		Street:   req.Shipping.Street,
		City:     req.Shipping.City,
		State:    req.Shipping.State,
		Zip:      req.Shipping.Zip,
		Country:  req.Shipping.Country,
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to save address: %w", err)
	}

	cartNote, err := json.Marshal(lines)
	if err != nil {
		s.discardAddress(ctx, address.ID)
		return nil, err
	}
	receipt := "rcpt_" + uuid.NewString()
	notes := map[string]string{
		"userId":    userID,
		"cart":      string(cartNote),
		"promoCode": req.PromoCode,
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, quote.MinorUnits(), s.currency, receipt, notes)
	if err != nil {
		s.discardAddress(ctx, address.ID)
		return nil, err
	}

	order := &models.Order{
		UserID:          userID,
		AddressID:       address.ID,
		Items:           items,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		Discount:        quote.Discount,
		Shipping:        quote.Shipping,
		TotalAmount:     quote.Total,
		PromoCode:       quote.PromoCode,
		Status:          models.StatusPending,
		PaymentIntentID: gatewayOrder.ID,
		Receipt:         receipt,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.discardAddress(ctx, address.ID)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.log.Info().
		Str("order_id", order.ID.Hex()).
		Str("gateway_order_id", gatewayOrder.ID).
		Str("user_id", userID).
		Str("total", quote.Total.StringFixed(2)).
		Msg("order created")

	publish(ctx, s.publisher, s.log, events.NewOrderCreated(events.OrderCreated{
		OrderID:        order.ID.Hex(),
		GatewayOrderID: gatewayOrder.ID,
		UserID:         userID,
		TotalAmount:    quote.Total,
		PromoCode:      quote.PromoCode,
	}))

	return &CheckoutResult{
		GatewayOrder: gatewayOrder,
		LocalOrderID: order.ID.Hex(),
		Quote:        quote,
	}, nil
}

// discardAddress removes an address left behind by a failed checkout. It runs
// even when ctx is already done; a failure is only logged.
func (s *CheckoutService) discardAddress(ctx context.Context, id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.addresses.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("address_id", id.Hex()).Msg("failed to discard address")
	}
}
