package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrDispatcherClosed = errors.New("event dispatcher closed")

// Dispatcher publishes events in the background. Close waits for every
// event already accepted before closing the underlying publisher.
type Dispatcher struct {
	publisher Publisher
	timeout   time.Duration
	log       zerolog.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

func NewDispatcher(publisher Publisher, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		timeout:   timeout,
		log:       log.With().Str("component", "events").Logger(),
	}
}

// Publish hands the event to a goroutine and returns at once. The send runs
// on its own deadline, detached from ctx; failures are logged.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.inflight.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.inflight.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.publisher.Publish(sendCtx, event); err != nil {
			d.log.Warn().Err(err).Str("event", event.Type).Str("key", event.Key).Msg("failed to publish event")
		}
	}()
	return nil
}

func (d *Dispatcher) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.inflight.Wait()
	return d.publisher.Close()
}
