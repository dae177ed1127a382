package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Price       decimal.Decimal    `bson:"price" json:"price"`
	Stock       int                `bson:"stock" json:"stock" validate:"gte=0"`
	Images      []string           `bson:"images" json:"images" validate:"dive,url"`
	Specs       map[string]string  `bson:"specs,omitempty" json:"specs,omitempty"`
	Featured    bool               `bson:"featured" json:"featured"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the struct tags plus the price floor, which the validator
// cannot express for decimal values.
func (p *Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
