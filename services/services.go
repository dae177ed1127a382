// Package services holds the storefront's business flows: checkout, payment
// verification, the cart and the admin back-office. Handlers call into it and
// map its errors onto HTTP responses.
package services

import (
	"context"
	"time"

	"fabstore/events"
	"fabstore/models"
	"fabstore/repository"

	"github.com/rs/zerolog"
)

const (
	publishTimeout = 10 * time.Second
	cleanupTimeout = 5 * time.Second
)

type Repositories struct {
	Products     repository.ProductRepository
	Orders       repository.OrderRepository
	Addresses    repository.AddressRepository
	Users        repository.UserRepository
	Transactions repository.TransactionRepository
}

// publish hands event to the publisher on a deadline detached from the
// request. Failures are logged and never reach the caller. In the running
// service the publisher is an events.Dispatcher, so this returns at once.
func publish(ctx context.Context, publisher events.Publisher, log zerolog.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", event.Type).Str("key", event.Key).Msg("failed to publish event")
	}
}

func validate(v any) error {
	if err := models.Validator().Struct(v); err != nil {
		return validationFailure(err)
	}
	return nil
}
