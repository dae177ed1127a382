package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

type natsConn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

type NATSPublisher struct {
	nc       natsConn
	log      zerolog.Logger
	attempts int
	backoff  time.Duration
}

func NewNATSPublisher(url string, log zerolog.Logger) (*NATSPublisher, error) {
	log = log.With().Str("component", "nats").Logger()

	nc, err := nats.Connect(url,
		nats.Name("fabstore"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info().Str("url", url).Msg("connected to NATS")
	return newNATSPublisher(nc, log), nil
}

func newNATSPublisher(nc natsConn, log zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{nc: nc, log: log, attempts: 3, backoff: time.Second}
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	data, err := encode(event)
	if err != nil {
		return err
	}

	for i := 0; i < p.attempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		if err = p.nc.Publish(event.Type, data); err == nil {
			err = p.nc.FlushTimeout(2 * time.Second)
		}
		if err == nil {
			p.log.Debug().Str("subject", event.Type).Str("key", event.Key).Msg("event published")
			return nil
		}

		p.log.Warn().Err(err).Int("attempt", i+1).Str("subject", event.Type).Msg("failed to publish to NATS")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff):
		}
	}
	return fmt.Errorf("failed to publish %s after %d attempts: %w", event.Type, p.attempts, err)
}

func (p *NATSPublisher) Close() error {
	p.nc.Close()
	return nil
}
