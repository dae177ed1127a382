package services

import (
	"context"
	"errors"
	"sync"

	"fabstore/cart"
	"fabstore/repository"

	"github.com/shopspring/decimal"
)

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type CartView struct {
	Items      []cart.Item     `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func viewOf(c *cart.Cart) *CartView {
	return &CartView{
		Items:      c.Items(),
		TotalItems: c.GetTotalItems(),
		TotalPrice: c.GetTotalPrice(),
	}
}

// CartService keeps one server-side cart per user. Mutations within this
// process are serialized.
type CartService struct {
	mu        sync.Mutex
	products  repository.ProductRepository
	persister cart.Persister
}

func NewCartService(repos Repositories, persister cart.Persister) *CartService {
	return &CartService{products: repos.Products, persister: persister}
}

func (s *CartService) with(ctx context.Context, userID string, fn func(*cart.Store) error) (*CartView, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := cart.Open(ctx, s.persister, userID)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(store); err != nil {
			return nil, err
		}
	}
	return viewOf(store.Snapshot()), nil
}

func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	return s.with(ctx, userID, nil)
}

// Add snapshots the live product into the cart.
func (s *CartService) Add(ctx context.Context, userID string, req AddToCartRequest) (*CartView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	oid, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid("Invalid product")
	}
	if err != nil {
		return nil, err
	}

	snapshot := cart.Product{
		ID:    product.ID.Hex(),
		Title: product.Title,
		Price: product.Price,
		Stock: product.Stock,
	}
	if len(product.Images) > 0 {
		snapshot.Image = product.Images[0]
	}

	return s.with(ctx, userID, func(store *cart.Store) error {
		return store.AddToCart(ctx, snapshot, req.Quantity)
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	return s.with(ctx, userID, func(store *cart.Store) error {
		return store.UpdateQuantity(ctx, productID, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) (*CartView, error) {
	return s.with(ctx, userID, func(store *cart.Store) error {
		return store.RemoveFromCart(ctx, productID)
	})
}

func (s *CartService) Clear(ctx context.Context, userID string) (*CartView, error) {
	return s.with(ctx, userID, func(store *cart.Store) error {
		return store.ClearCart(ctx)
	})
}
