package push

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/clients"
	"github.com/mcdev12/auctionfeed/go/internal/ingest"
)

// WebsocketConfig holds configuration for the websocket push channel
type WebsocketConfig struct {
	URL            string
	Token          clients.TokenSource
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultWebsocketConfig returns default websocket configuration
func DefaultWebsocketConfig(url string, token clients.TokenSource) WebsocketConfig {
	return WebsocketConfig{
		URL:            url,
		Token:          token,
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1 << 20, // snapshots carry every team
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     15 * time.Second,
	}
}

// WebsocketChannel is a Channel over a gorilla websocket connection. It redials with
// exponential backoff until Disconnect.
type WebsocketChannel struct {
	config WebsocketConfig
	dialer *websocket.Dialer
	subs   *registry

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	conn   *websocket.Conn

	writeMu sync.Mutex
}

func NewWebsocketChannel(config WebsocketConfig) *WebsocketChannel {
	return &WebsocketChannel{
		config: config,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: config.WriteTimeout,
		},
		subs: newRegistry(),
	}
}

// Connect starts the connection loop. ctx bounds the lifetime of the channel.
func (c *WebsocketChannel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return nil
	}
	if c.config.URL == "" {
		return ErrNoEndpoint
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(runCtx, c.done)

	log.Info().Str("url", c.config.URL).Msg("push channel connecting")
	return nil
}

func (c *WebsocketChannel) Subscribe(kind ingest.EventKind, handler Handler) (*Subscription, error) {
	return c.subs.add(kind, handler)
}

func (c *WebsocketChannel) RequestState(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.write(conn, ingest.EncodeRequestState())
}

// Disconnect stops the connection loop, closes the socket and releases all handlers
func (c *WebsocketChannel) Disconnect() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	released := c.subs.clear()
	if cancel == nil {
		return nil
	}

	cancel()
	<-done

	log.Info().Int("released_subscriptions", released).Msg("push channel disconnected")
	return nil
}

func (c *WebsocketChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Subscriptions returns the number of registered handlers
func (c *WebsocketChannel) Subscriptions() int {
	return c.subs.count()
}

func (c *WebsocketChannel) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer c.release(done)

	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Str("url", c.config.URL).Msg("giving up on push channel")
			}
			return
		}

		err = c.serve(ctx, conn)
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Str("url", c.config.URL).Msg("push connection lost, reconnecting")
	}
}

// release clears the loop handles when the loop ends on its own, so a later Connect
// starts a fresh loop. A loop already replaced or disconnected is left alone.
func (c *WebsocketChannel) release(done chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != done {
		return
	}
	c.cancel()
	c.cancel, c.done = nil, nil
}

func (c *WebsocketChannel) dial(ctx context.Context) (*websocket.Conn, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.InitialBackoff
	b.MaxInterval = c.config.MaxBackoff

	operation := func() (*websocket.Conn, error) {
		conn, resp, err := c.dialer.DialContext(ctx, c.config.URL, c.header())
		if err != nil {
			if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
				return nil, backoff.Permanent(fmt.Errorf("push endpoint rejected credentials: %w", err))
			}
			return nil, err
		}
		return conn, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Dur("retry_in", next).Msg("push dial failed")
		}),
	)
}

func (c *WebsocketChannel) header() http.Header {
	h := http.Header{}
	if c.config.Token != nil {
		if token := c.config.Token(); token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}
	return h
}

// serve owns one live connection until it fails or ctx ends
func (c *WebsocketChannel) serve(ctx context.Context, conn *websocket.Conn) error {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.config.WriteTimeout))
		c.writeMu.Unlock()
		conn.Close()
	})

	pingDone := make(chan struct{})
	defer func() {
		close(pingDone)
		stop()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	go c.pingLoop(conn, pingDone)

	conn.SetReadLimit(c.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	})

	log.Info().Str("url", c.config.URL).Msg("push channel connected")

	if err := c.write(conn, ingest.EncodeRequestState()); err != nil {
		return fmt.Errorf("failed to request state: %w", err)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Msg("unexpected websocket close error")
			}
			return err
		}
		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		c.subs.dispatch(message)
	}
}

func (c *WebsocketChannel) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.config.WriteTimeout))
			c.writeMu.Unlock()
			if err != nil {
				log.Debug().Err(err).Msg("failed to send ping")
				return
			}
		}
	}
}

func (c *WebsocketChannel) write(conn *websocket.Conn, msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("failed to write push message: %w", err)
	}
	return nil
}
