package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// envelope is the wire format of published events.
type envelope struct {
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    Event     `json:"payload"`
}

// NATSPublisher publishes events as JSON on "<prefix>.<event name>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string, logger zerolog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("shopapi"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	if prefix == "" {
		prefix = "shopapi"
	}

	return &NATSPublisher{conn: conn, prefix: prefix, logger: logger}, nil
}

// Subject returns the subject an event is published on.
func (p *NATSPublisher) Subject(e Event) string {
	return p.prefix + "." + e.EventName()
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(envelope{
		Name:       e.EventName(),
		OccurredAt: time.Now().UTC(),
		Payload:    e,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", e.EventName(), err)
	}

	if err := p.conn.Publish(p.Subject(e), data); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.EventName(), err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
