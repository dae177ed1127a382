package services

import (
	"context"
	"errors"
	"fmt"

	"fabstore/models"
	"fabstore/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	log      zerolog.Logger
}

func NewOrderService(repos Repositories, log zerolog.Logger) *OrderService {
	return &OrderService{
		orders:   repos.Orders,
		products: repos.Products,
		log:      log.With().Str("component", "orders").Logger(),
	}
}

func parseID(id, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, invalid("Invalid %s ID", what)
	}
	return oid, nil
}

func (s *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	filter := repository.OrderFilter{Status: models.OrderStatus(status)}
	if status != "" && !filter.Status.Valid() {
		return nil, invalid("Invalid status value")
	}
	return s.orders.List(ctx, filter)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	oid, err := parseID(id, "order")
	if err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, oid)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.orders.List(ctx, repository.OrderFilter{UserID: userID})
}

// GetUserOrder hides other users' orders behind ErrNotFound.
func (s *OrderService) GetUserOrder(ctx context.Context, userID, id string) (*models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotFound
	}
	return order, nil
}

// UpdateStatus moves an order along the transition table. Cancelling a paid
// order puts its stock back.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	to := models.OrderStatus(status)
	if !to.Valid() {
		return nil, invalid("Invalid status value")
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, to)
}

// CancelUserOrder lets a customer cancel their own order while it is pending.
func (s *OrderService) CancelUserOrder(ctx context.Context, userID, id string) (*models.Order, error) {
	order, err := s.GetUserOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, invalid("Order cannot be cancelled")
	}
	return s.transition(ctx, order, models.StatusCancelled)
}

// transition applies one step of the table. Moving pending to paid by hand
// takes stock the same way a verified payment does.
func (s *OrderService) transition(ctx context.Context, order *models.Order, to models.OrderStatus) (*models.Order, error) {
	from := order.Status
	if !models.CanTransition(from, to) {
		return nil, invalid("Cannot change status from %s to %s", from, to)
	}

	lines := stockLines(order.Items)
	takesStock := from == models.StatusPending && to == models.StatusPaid
	if takesStock {
		if err := s.products.DecrementStock(ctx, lines); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return nil, invalid("Insufficient stock to mark order paid")
			}
			return nil, fmt.Errorf("failed to take stock: %w", err)
		}
	}

	updated, err := s.orders.CompareAndSetStatus(ctx, order.ID, from, to)
	if err != nil {
		if takesStock {
			if rerr := s.products.RestoreStock(ctx, lines); rerr != nil {
				s.log.Error().Err(rerr).Str("order_id", order.ID.Hex()).Msg("failed to restore stock")
			}
		}
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, invalid("Order status changed, reload and retry")
		}
		return nil, err
	}

	if from == models.StatusPaid && to == models.StatusCancelled {
		if err := s.products.RestoreStock(ctx, lines); err != nil {
			s.log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("failed to restore stock for cancelled order")
		}
	}

	s.log.Info().
		Str("order_id", order.ID.Hex()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order status updated")
	return updated, nil
}
