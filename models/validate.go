package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var ErrNegativePrice = errors.New("price must not be negative")

// Validator exposes the shared validator so request DTOs are checked with the
// same rules as the persisted models.
func Validator() *validator.Validate {
	return validate
}
