package session

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/auction"
	"github.com/mcdev12/auctionfeed/go/internal/auction/actions"
	"github.com/mcdev12/auctionfeed/go/internal/auction/poll"
	"github.com/mcdev12/auctionfeed/go/internal/auction/portal"
	"github.com/mcdev12/auctionfeed/go/internal/auction/push"
	"github.com/mcdev12/auctionfeed/go/internal/auction/store"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

type Config struct {
	Backend auction.Backend
	// Channel is the push channel. Nil runs the session on polling alone.
	Channel push.Channel
	Clock   clockwork.Clock
	Poll    poll.Config
	User    models.User
}

// Session is one login's live view of the auction. It owns the read model and the
// two sources feeding it, and tears them down together.
type Session struct {
	user     models.User
	store    *store.Store
	listener *push.Listener
	loop     *poll.Loop
	actions  *actions.Actions
	portal   *portal.Portal

	mu      sync.Mutex
	started bool
	closed  bool
}

func New(cfg Config) *Session {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	st := store.New(clock)
	loop := poll.New(cfg.Backend, st, clock, cfg.Poll)

	s := &Session{
		user:   cfg.User,
		store:  st,
		loop:   loop,
		portal: portal.New(cfg.Backend, st, cfg.User),
	}
	s.actions = actions.New(cfg.Backend, loop, s.lookupTeam)
	if cfg.Channel != nil {
		s.listener = push.NewListener(cfg.Channel, st)
	}
	return s
}

// Start performs the initial load and starts the push listener and the poll loop.
// Failures of either source are logged; the other keeps the view alive.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.closed {
		return nil
	}
	s.started = true

	if s.listener != nil {
		if err := s.listener.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("push listener unavailable, relying on polling")
		}
	}

	if err := s.initialLoad(ctx); err != nil {
		log.Error().Err(err).Str("user", s.user.Username).Msg("initial load failed")
	}

	s.loop.Start(ctx)

	log.Info().
		Str("user", s.user.Username).
		Str("role", string(s.user.Role)).
		Bool("push", s.listener != nil).
		Msg("auction session started")
	return nil
}

func (s *Session) initialLoad(ctx context.Context) error {
	if s.user.Role == models.UserRoleManager {
		return s.loop.RefreshNow(ctx)
	}
	return s.portal.Load(ctx)
}

// Close stops the listener and the loop and closes the store so late responses are
// discarded. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.store.Close()
	if s.listener != nil {
		if err := s.listener.Stop(); err != nil {
			log.Warn().Err(err).Msg("failed to stop push listener")
		}
	}
	s.loop.Stop()

	log.Info().Str("user", s.user.Username).Msg("auction session closed")
}

func (s *Session) User() models.User         { return s.user }
func (s *Session) Store() *store.Store       { return s.store }
func (s *Session) Loop() *poll.Loop          { return s.loop }
func (s *Session) Actions() *actions.Actions { return s.actions }
func (s *Session) Portal() *portal.Portal    { return s.portal }

func (s *Session) lookupTeam(teamID string) (models.Team, bool) {
	view := s.store.Snapshot()
	for _, teams := range [][]models.Team{view.Teams, view.State.TeamSummaries} {
		for _, t := range teams {
			if t.ID == teamID {
				return t, true
			}
		}
	}
	return models.Team{}, false
}
