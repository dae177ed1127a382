package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	AddressID       primitive.ObjectID `bson:"addressId" json:"addressId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        decimal.Decimal    `bson:"subtotal" json:"subtotal"`
	Tax             decimal.Decimal    `bson:"tax" json:"tax"`
	Discount        decimal.Decimal    `bson:"discount" json:"discount"`
	Shipping        decimal.Decimal    `bson:"shipping" json:"shipping"`
	TotalAmount     decimal.Decimal    `bson:"totalAmount" json:"totalAmount"`
	PromoCode       string             `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
	Status          OrderStatus        `bson:"status" json:"status"`
	PaymentIntentID string             `bson:"paymentIntentId" json:"paymentIntentId"`
	Receipt         string             `bson:"receipt" json:"receipt"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type OrderItem struct {
	ProductID       primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	PriceAtPurchase decimal.Decimal    `bson:"priceAtPurchase" json:"priceAtPurchase"`
}

var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderStatusForPayment maps a gateway payment status onto the order status it
// should advance to. ok is false when the payment status implies no change.
func OrderStatusForPayment(paymentStatus string) (status OrderStatus, ok bool) {
	switch paymentStatus {
	case "captured", "authorized":
		return StatusPaid, true
	default:
		return "", false
	}
}
