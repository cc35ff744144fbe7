package mockbackend

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
)

// SnapshotFunc encodes the current auction state as a stateSnapshot message
type SnapshotFunc func() ([]byte, error)

// Hub manages websocket viewers and fans push messages out to them
type Hub struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   HubConfig
	snapshot SnapshotFunc

	broadcastCh chan []byte
}

// Connection is one websocket viewer
type Connection struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
	hub    *Hub

	ConnectedAt time.Time
}

// HubConfig holds configuration for websocket connections
type HubConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
}

// DefaultHubConfig returns default websocket configuration
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      256,
	}
}

func NewHub(config HubConfig, snapshot SnapshotFunc) *Hub {
	return &Hub{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		config:      config,
		snapshot:    snapshot,
		broadcastCh: make(chan []byte, 1000),
	}
}

// Start processes broadcasts until ctx is done, then closes every connection
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("websocket hub started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("websocket hub shutting down")
			return
		case msg := <-h.broadcastCh:
			h.fanOut(msg)
		}
	}
}

// Broadcast queues msg for every connection. It never blocks; a full queue drops the
// message and viewers heal on their next poll.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcastCh <- msg:
	default:
		log.Warn().Msg("broadcast channel full, dropping message")
	}
}

// Upgrade turns an authenticated request into a websocket viewer
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		Conn:        conn,
		Send:        make(chan []byte, h.config.SendBuffer),
		hub:         h,
		ConnectedAt: time.Now(),
	}
	h.register(c)

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("user_id", userID).
		Msg("websocket connection established")
	return nil
}

// Count returns the number of live connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.Send)
		log.Info().
			Str("connection_id", c.ID).
			Str("user_id", c.UserID).
			Msg("connection unregistered")
	}
}

func (h *Hub) fanOut(msg []byte) {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.connections))
	for c := range h.connections {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.deliver(c, msg)
	}
	log.Debug().Int("connections", len(targets)).Msg("event broadcasted")
}

// deliver queues msg for c, dropping a viewer that cannot keep up
func (h *Hub) deliver(c *Connection, msg []byte) {
	h.mu.RLock()
	_, live := h.connections[c]
	if live {
		select {
		case c.Send <- msg:
			h.mu.RUnlock()
			return
		default:
		}
	}
	h.mu.RUnlock()
	if !live {
		return
	}

	log.Warn().Str("connection_id", c.ID).Msg("connection send buffer full, closing connection")
	h.unregister(c)
	c.Conn.Close()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
		delete(h.connections, c)
		close(c.Send)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.Conn.Close()
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected websocket close error")
			}
			return
		}
		c.handleClientMessage(msg)
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}

// handleClientMessage answers request:state with a snapshot for this viewer only
func (c *Connection) handleClientMessage(msg []byte) {
	env, err := ingest.DecodeEnvelope(msg)
	if err != nil || env.Type != ingest.RequestState {
		log.Debug().Str("connection_id", c.ID).Bytes("message", msg).Msg("ignoring client message")
		return
	}

	snap, err := c.hub.snapshot()
	if err != nil {
		log.Error().Err(err).Msg("failed to encode state snapshot")
		return
	}
	c.hub.deliver(c, snap)
}
