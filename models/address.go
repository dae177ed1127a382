package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"
)

// Address belongs to an identity-provider user id, not to a users document.
// It is written once at checkout and never updated.
type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId" validate:"required"`
	Type      string             `bson:"type" json:"type" validate:"oneof=shipping billing"`
	FullName  string             `bson:"fullName" json:"fullName" validate:"required"`
	Phone     string             `bson:"phone" json:"phone" validate:"required"`
	Street    string             `bson:"street" json:"street" validate:"required"`
	City      string             `bson:"city" json:"city" validate:"required"`
	State     string             `bson:"state" json:"state" validate:"required"`
	Zip       string             `bson:"zip" json:"zip" validate:"required"`
	Country   string             `bson:"country" json:"country" validate:"required"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (a *Address) Validate() error {
	return validate.Struct(a)
}
