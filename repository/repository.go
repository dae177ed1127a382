package repository

import (
	"context"
	"errors"

	"fabstore/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStatusConflict    = errors.New("order status changed concurrently")
)

// CollectionProvider hands out collections from a lazily connected database.
type CollectionProvider interface {
	Collection(ctx context.Context, name string) (*mongo.Collection, error)
}

type ProductFilter struct {
	Featured *bool
	Query    string
	Sort     string
	Limit    int64
}

type ProductUpdate struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Images      *[]string
	Specs       *map[string]string
	Featured    *bool
}

// StockLine is one product quantity taken out of or returned to stock.
type StockLine struct {
	ProductID primitive.ObjectID
	Quantity  int
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, lines []StockLine) error
	RestoreStock(ctx context.Context, lines []StockLine) error
}

type OrderFilter struct {
	UserID string
	Status models.OrderStatus
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetByPaymentIntent(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// CompareAndSetStatus moves the order to `to` only if it is still in `from`.
	CompareAndSetStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (*models.Order, error)
}

type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Address, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserRepository interface {
	// EnsureUser inserts the user if no document with the same external id exists
	// and returns the stored document either way.
	EnsureUser(ctx context.Context, user *models.User) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, externalID, role string) (*models.User, error)
}

type TransactionFilter struct {
	Status string
	UserID string
}

type TransactionRepository interface {
	// Upsert writes the transaction keyed by PaymentID. created reports whether
	// a new document was inserted.
	Upsert(ctx context.Context, txn *models.Transaction) (stored *models.Transaction, created bool, err error)
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
}
