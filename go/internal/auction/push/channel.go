package push

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
)

var (
	// ErrNotConnected is returned when a message is sent on a channel with no live connection
	ErrNotConnected = errors.New("push channel not connected")

	// ErrNoEndpoint is returned by Connect when the channel has nowhere to connect to
	ErrNoEndpoint = errors.New("push channel has no endpoint")
)

// Handler receives the raw payload of one push message of the subscribed kind
type Handler func(data []byte)

// Channel is a bidirectional push connection to the auction backend.
//
// Connect is idempotent: a second call on a connected channel is a no-op. Every
// (re)connect sends a request:state message so the server replies with a snapshot.
// Each event kind has at most one handler; subscribing again replaces the previous
// handler. Disconnect closes the connection and releases every subscription.
type Channel interface {
	Connect(ctx context.Context) error
	Subscribe(kind ingest.EventKind, handler Handler) (*Subscription, error)
	RequestState(ctx context.Context) error
	Disconnect() error
	Connected() bool
}

// Subscription is the handle for one registered handler
type Subscription struct {
	kind    ingest.EventKind
	id      uint64
	release func(kind ingest.EventKind, id uint64) bool
	once    sync.Once
}

func (s *Subscription) Kind() ingest.EventKind {
	return s.kind
}

// Unsubscribe removes the handler. It is safe to call more than once, and it does
// not remove a handler that has since replaced this one.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.release(s.kind, s.id)
	})
}

type subscriber struct {
	id      uint64
	handler Handler
}

// registry holds the per kind handlers shared by every channel implementation
type registry struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[ingest.EventKind]subscriber
}

func newRegistry() *registry {
	return &registry{handlers: make(map[ingest.EventKind]subscriber)}
}

func (r *registry) add(kind ingest.EventKind, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, errors.New("nil push handler")
	}
	if kind == "" {
		return nil, errors.New("empty event kind")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	if _, exists := r.handlers[kind]; exists {
		log.Debug().Str("kind", string(kind)).Msg("replacing push handler")
	}
	r.handlers[kind] = subscriber{id: r.nextID, handler: handler}

	return &Subscription{kind: kind, id: r.nextID, release: r.remove}, nil
}

func (r *registry) remove(kind ingest.EventKind, id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.handlers[kind]
	if !ok || sub.id != id {
		return false
	}
	delete(r.handlers, kind)
	return true
}

func (r *registry) clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.handlers)
	r.handlers = make(map[ingest.EventKind]subscriber)
	return n
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

func (r *registry) lookup(kind ingest.EventKind) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.handlers[kind]
	return sub.handler, ok
}

// dispatch routes one raw message to its handler. Handlers run without the registry
// lock held so they may subscribe or unsubscribe.
func (r *registry) dispatch(msg []byte) {
	env, err := ingest.DecodeEnvelope(msg)
	if err != nil {
		log.Warn().Err(err).Int("size", len(msg)).Msg("dropping malformed push message")
		return
	}

	handler, ok := r.lookup(env.Type)
	if !ok {
		log.Debug().Str("kind", string(env.Type)).Msg("no handler for push message")
		return
	}
	handler(env.Data)
}
