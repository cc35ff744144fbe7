package poll

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/auctionfeed/go/internal/auction"
	"github.com/mcdev12/auctionfeed/go/internal/auction/store"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// DefaultInterval is the poll period when none is configured
const DefaultInterval = 3 * time.Second

// Writer is the mutation side of the read model the loop feeds
type Writer interface {
	ApplyTick(t store.Tick) bool
	ReplaceStateAndTeams(state models.AuctionState, teams []models.Team) bool
	ReplaceUnsold(players []models.Player) bool
}

type Config struct {
	Interval time.Duration
	// Disabled turns off periodic ticks. Filter changes and RefreshNow still fetch.
	Disabled bool
}

// Loop periodically refreshes the read model from the backend. It is the fallback
// for missed push messages, so a failed cycle is only logged and the next one
// retries.
type Loop struct {
	backend auction.Backend
	store   Writer
	clock   clockwork.Clock
	config  Config

	mu        sync.Mutex
	filter    models.PlayerFilter
	filterGen uint64
	cancel    context.CancelFunc
	done      chan struct{}

	skip     atomic.Bool
	filterCh chan struct{}
}

func New(backend auction.Backend, w Writer, clock clockwork.Clock, config Config) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &Loop{
		backend:  backend,
		store:    w,
		clock:    clock,
		config:   config,
		filterCh: make(chan struct{}, 1),
	}
}

// Start runs the loop until Stop or until ctx ends. A second Start is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(runCtx, l.done)

	log.Info().
		Dur("interval", l.config.Interval).
		Bool("disabled", l.config.Disabled).
		Msg("poll loop started")
}

// Stop ends the loop and waits for an in-flight cycle to return
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info().Msg("poll loop stopped")
}

// SkipNext makes the loop skip exactly one upcoming tick. It is a best-effort way to
// keep a poll from landing in the middle of a write; it does not lock anything.
func (l *Loop) SkipNext() {
	l.skip.Store(true)
}

// SetFilter changes the unsold filter and asks for an immediate unsold fetch
func (l *Loop) SetFilter(filter models.PlayerFilter) {
	l.mu.Lock()
	l.filter = filter
	l.filterGen++
	l.mu.Unlock()

	select {
	case l.filterCh <- struct{}{}:
	default:
	}
}

func (l *Loop) Filter() models.PlayerFilter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// RefreshNow fetches unsold players, auction state and team summaries and applies
// them together. It ignores SkipNext.
func (l *Loop) RefreshNow(ctx context.Context) error {
	filter, gen := l.currentFilter()

	var (
		unsold []models.Player
		state  models.AuctionState
		teams  []models.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		unsold, err = l.backend.UnsoldPlayers(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		state, err = l.backend.AuctionState(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = l.backend.TeamSummaries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to refresh auction: %w", err)
	}

	if _, now := l.currentFilter(); now != gen {
		// The filter moved while the cycle was in flight; its own fetch owns the
		// unsold list.
		log.Debug().Msg("dropping unsold players for superseded filter")
		l.store.ReplaceStateAndTeams(state, teams)
		return nil
	}

	l.store.ApplyTick(store.Tick{State: state, Teams: teams, Unsold: unsold})
	return nil
}

func (l *Loop) currentFilter() (models.PlayerFilter, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter, l.filterGen
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	var tickCh <-chan time.Time
	if !l.config.Disabled {
		ticker := l.clock.NewTicker(l.config.Interval)
		defer ticker.Stop()
		tickCh = ticker.Chan()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tickCh:
			l.tick(ctx)
		case <-l.filterCh:
			l.fetchUnsold(ctx)
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	if l.skip.CompareAndSwap(true, false) {
		log.Debug().Msg("skipping poll cycle")
		return
	}
	if err := l.RefreshNow(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("poll cycle failed")
	}
}

func (l *Loop) fetchUnsold(ctx context.Context) {
	filter, gen := l.currentFilter()

	players, err := l.backend.UnsoldPlayers(ctx, filter)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Str("search", filter.Search).Str("role", filter.Role).Msg("failed to fetch unsold players")
		}
		return
	}

	if _, now := l.currentFilter(); now != gen {
		return
	}
	l.store.ReplaceUnsold(players)
}
