package push

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
)

// NATSConfig holds configuration for the NATS push channel
type NATSConfig struct {
	URL           string
	Prefix        string // events arrive on <prefix>.events
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns default NATS channel configuration
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Prefix:        "auction",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// EventsSubject is the subject auction events are published on
func EventsSubject(prefix string) string {
	return prefix + ".events"
}

// StateRequestSubject is the subject resync requests are published on
func StateRequestSubject(prefix string) string {
	return prefix + ".requests.state"
}

// NATSChannel is a Channel fed by a NATS subject. nats.go handles reconnection; each
// reconnect triggers a fresh state request.
type NATSChannel struct {
	config NATSConfig
	subs   *registry

	mu  sync.Mutex
	nc  *nats.Conn
	sub *nats.Subscription
}

func NewNATSChannel(config NATSConfig) *NATSChannel {
	return &NATSChannel{
		config: config,
		subs:   newRegistry(),
	}
}

func (c *NATSChannel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nc != nil {
		return nil
	}
	if c.config.URL == "" || c.config.Prefix == "" {
		return ErrNoEndpoint
	}

	opts := []nats.Option{
		nats.Name("auctionfeed-" + uuid.New().String()),
		nats.MaxReconnects(c.config.MaxReconnects),
		nats.ReconnectWait(c.config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
			if err := c.publishStateRequest(nc); err != nil {
				log.Warn().Err(err).Msg("failed to request state after reconnect")
			}
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(c.config.URL, opts...)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	sub, err := nc.Subscribe(EventsSubject(c.config.Prefix), func(m *nats.Msg) {
		c.subs.dispatch(m.Data)
	})
	if err != nil {
		nc.Close()
		return fmt.Errorf("subscribe to %s: %w", EventsSubject(c.config.Prefix), err)
	}

	c.nc = nc
	c.sub = sub

	if err := c.publishStateRequest(nc); err != nil {
		log.Warn().Err(err).Msg("failed to request state after connect")
	}

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("subject", EventsSubject(c.config.Prefix)).
		Msg("push channel connected")
	return nil
}

func (c *NATSChannel) Subscribe(kind ingest.EventKind, handler Handler) (*Subscription, error) {
	return c.subs.add(kind, handler)
}

func (c *NATSChannel) RequestState(ctx context.Context) error {
	c.mu.Lock()
	nc := c.nc
	c.mu.Unlock()

	if nc == nil || !nc.IsConnected() {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.publishStateRequest(nc)
}

func (c *NATSChannel) publishStateRequest(nc *nats.Conn) error {
	if err := nc.Publish(StateRequestSubject(c.config.Prefix), ingest.EncodeRequestState()); err != nil {
		return fmt.Errorf("publish state request: %w", err)
	}
	return nil
}

func (c *NATSChannel) Disconnect() error {
	c.mu.Lock()
	nc, sub := c.nc, c.sub
	c.nc, c.sub = nil, nil
	c.mu.Unlock()

	released := c.subs.clear()
	if nc == nil {
		return nil
	}

	var unsubErr error
	if sub != nil {
		unsubErr = sub.Unsubscribe()
	}
	nc.Close()

	log.Info().Int("released_subscriptions", released).Msg("push channel disconnected")
	if unsubErr != nil {
		return fmt.Errorf("unsubscribe: %w", unsubErr)
	}
	return nil
}

func (c *NATSChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nc != nil && c.nc.IsConnected()
}

// Subscriptions returns the number of registered handlers
func (c *NATSChannel) Subscriptions() int {
	return c.subs.count()
}
