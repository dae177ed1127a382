package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction records one gateway payment attempt. PaymentID is unique and is
// the upsert key. Status uses the gateway's vocabulary, not OrderStatus.
type Transaction struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PaymentID    string             `bson:"paymentId" json:"paymentId"`
	OrderID      string             `bson:"orderId" json:"orderId"`
	LocalOrderID string             `bson:"localOrderId,omitempty" json:"localOrderId,omitempty"`
	UserID       string             `bson:"userId" json:"userId"`
	Amount       decimal.Decimal    `bson:"amount" json:"amount"`
	Currency     string             `bson:"currency" json:"currency"`
	Method       string             `bson:"method" json:"method"`
	Status       string             `bson:"status" json:"status"`
	Metadata     map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
