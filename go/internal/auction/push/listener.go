package push

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/auction/store"
	"github.com/mcdev12/auctionfeed/go/internal/ingest"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// Writer is the mutation side of the read model the listener feeds
type Writer interface {
	ReplaceAll(state models.AuctionState) bool
	ApplyDelta(d store.Delta) bool
}

// Listener turns push messages into store writes. It subscribes each kind exactly
// once per Start and releases all of them on Stop.
type Listener struct {
	channel Channel
	store   Writer

	mu   sync.Mutex
	subs []*Subscription
}

func NewListener(channel Channel, store Writer) *Listener {
	return &Listener{channel: channel, store: store}
}

// Start subscribes the three auction kinds and connects the channel. Calling Start on
// a running listener does nothing.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.subs != nil {
		return nil
	}

	handlers := []struct {
		kind    ingest.EventKind
		handler Handler
	}{
		{ingest.EventStateSnapshot, l.handle(ingest.EventStateSnapshot)},
		{ingest.EventCurrentPlayerUpdated, l.handle(ingest.EventCurrentPlayerUpdated)},
		{ingest.EventPlayerSold, l.handle(ingest.EventPlayerSold)},
	}

	subs := make([]*Subscription, 0, len(handlers))
	for _, h := range handlers {
		sub, err := l.channel.Subscribe(h.kind, h.handler)
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return fmt.Errorf("subscribe %s: %w", h.kind, err)
		}
		subs = append(subs, sub)
	}
	l.subs = subs

	if err := l.channel.Connect(ctx); err != nil {
		return fmt.Errorf("connect push channel: %w", err)
	}
	return nil
}

// Stop releases the subscriptions and disconnects the channel
func (l *Listener) Stop() error {
	l.mu.Lock()
	subs := l.subs
	l.subs = nil
	l.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
	return l.channel.Disconnect()
}

func (l *Listener) handle(kind ingest.EventKind) Handler {
	return func(data []byte) {
		ev, err := ingest.DecodePayload(kind, data)
		if err != nil {
			level := log.Warn()
			if errors.Is(err, ingest.ErrInvalidRecord) {
				level = log.Debug()
			}
			level.Err(err).Str("kind", string(kind)).Msg("dropping push payload")
			return
		}
		l.apply(ev)
	}
}

func (l *Listener) apply(ev ingest.Event) {
	var applied bool
	switch ev := ev.(type) {
	case ingest.StateSnapshot:
		applied = l.store.ReplaceAll(ev.State)
	case ingest.CurrentPlayerUpdated:
		applied = l.store.ApplyDelta(store.CurrentPlayerUpdated{Player: ev.Player})
	case ingest.PlayerSold:
		applied = l.store.ApplyDelta(store.PlayerSold{
			Player:    ev.Player,
			Team:      ev.Team,
			Amount:    ev.Amount,
			Timestamp: ev.Timestamp,
		})
	}

	log.Debug().Str("kind", string(ev.Kind())).Bool("applied", applied).Msg("push event")
}
