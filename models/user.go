package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the identity provider's account. ExternalID is the provider's
// stable subject id.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID string             `bson:"externalId" json:"externalId" validate:"required"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	Role       string             `bson:"role" json:"role" validate:"oneof=user admin"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
