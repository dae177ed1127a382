package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownBackend = errors.New("unknown cart backend")

// Persister loads and saves whole carts by key. Load returns an empty cart
// when nothing is stored under key.
type Persister interface {
	Load(ctx context.Context, key string) (*Cart, error)
	Save(ctx context.Context, key string, c *Cart) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store is a cart bound to a key. Every mutation is written through to the
// persister before it becomes visible; a failed write leaves the cart as it was.
type Store struct {
	mu   sync.Mutex
	key  string
	cart *Cart
	p    Persister
}

func Open(ctx context.Context, p Persister, key string) (*Store, error) {
	c, err := p.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", key, err)
	}
	return &Store{key: key, cart: c, p: p}, nil
}

func (s *Store) mutate(ctx context.Context, fn func(c *Cart)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.clone()
	fn(next)

	var err error
	if next.Len() == 0 {
		err = s.p.Delete(ctx, s.key)
	} else {
		err = s.p.Save(ctx, s.key, next)
	}
	if err != nil {
		return fmt.Errorf("failed to persist cart %s: %w", s.key, err)
	}
	s.cart = next
	return nil
}

func (s *Store) AddToCart(ctx context.Context, p Product, quantity int) error {
	return s.mutate(ctx, func(c *Cart) { c.AddToCart(p, quantity) })
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	return s.mutate(ctx, func(c *Cart) { c.RemoveFromCart(productID) })
}

func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, func(c *Cart) { c.UpdateQuantity(productID, quantity) })
}

func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, func(c *Cart) { c.ClearCart() })
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.clone()
}
