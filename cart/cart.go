// Package cart implements the shopping cart: an ordered set of line items
// keyed by product id, with write-through persistence.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is the catalog data a line item snapshots when first added.
type Product struct {
	ID    string
	Title string
	Price decimal.Decimal
	Image string
	Stock int
}

type Item struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

// Cart is not safe for concurrent use; Store serializes access.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) index(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddToCart merges quantity into an existing line or appends a new snapshot.
// Non-positive quantities are ignored.
func (c *Cart) AddToCart(p Product, quantity int) {
	if quantity <= 0 || p.ID == "" {
		return
	}
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity += quantity
		return
	}
	c.items = append(c.items, Item{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.Image,
		Stock:     p.Stock,
		Quantity:  quantity,
	})
}

func (c *Cart) RemoveFromCart(productID string) {
	if i := c.index(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveFromCart(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.items[i].Quantity = quantity
	}
}

func (c *Cart) ClearCart() {
	c.items = nil
}

func (c *Cart) GetTotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) GetTotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) clone() *Cart {
	return &Cart{items: c.Items()}
}

type cartJSON struct {
	Items []Item `json:"items"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(cartJSON{Items: items})
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var v cartJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.items = c.items[:0]
	for _, item := range v.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		c.items = append(c.items, item)
	}
	return nil
}
