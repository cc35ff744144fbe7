package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// View is an immutable copy of everything the store projects
type View struct {
	State  models.AuctionState
	Teams  []models.Team
	Unsold []models.Player
}

// Store is the read model shared by the push listener and the poll loop. All writes
// go through its methods; each write is one critical section, so readers see either
// the old or the new projection set and never a mix.
type Store struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	state  models.AuctionState
	teams  []models.Team
	unsold []models.Player

	version   uint64
	updatedAt time.Time
	lastTxnID int64
	closed    bool

	changes chan struct{}
}

func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:   clock,
		state:   emptyState(),
		teams:   []models.Team{},
		unsold:  []models.Player{},
		changes: make(chan struct{}, 1),
	}
}

func emptyState() models.AuctionState {
	return models.AuctionState{
		TeamSummaries:      []models.Team{},
		RecentTransactions: []models.Transaction{},
		HighestBuys:        []models.Player{},
	}
}

// ReplaceAll overwrites the four auction projections with a full snapshot
func (s *Store) ReplaceAll(state models.AuctionState) bool {
	next := normalizeState(state)
	return s.write("replace_all", func() {
		s.state = next
	})
}

// ApplyDelta applies an incremental change. Unknown deltas are ignored.
func (s *Store) ApplyDelta(d Delta) bool {
	switch d := d.(type) {
	case CurrentPlayerUpdated:
		p := d.Player.Clone()
		return s.write("current_player_updated", func() {
			s.state.CurrentPlayer = &p
		})

	case PlayerSold:
		return s.write("player_sold", func() {
			txn := s.soldTransaction(d)
			s.state.CurrentPlayer = nil
			txns := make([]models.Transaction, 0, models.MaxRecentTransactions)
			txns = append(txns, txn)
			txns = append(txns, s.state.RecentTransactions...)
			if len(txns) > models.MaxRecentTransactions {
				txns = txns[:models.MaxRecentTransactions]
			}
			s.state.RecentTransactions = txns
		})

	default:
		log.Warn().Type("delta", d).Msg("ignoring unknown delta")
		return false
	}
}

// ReplaceUnsold replaces the unsold listing. Invalid and repeated ids are dropped.
func (s *Store) ReplaceUnsold(players []models.Player) bool {
	next, _ := ingest.DedupePlayers(models.ClonePlayers(players))
	return s.write("replace_unsold", func() {
		s.unsold = next
	})
}

// ReplaceTeams replaces the team roster
func (s *Store) ReplaceTeams(teams []models.Team) bool {
	next := nonNilTeams(models.CloneTeams(teams))
	return s.write("replace_teams", func() {
		s.teams = next
	})
}

// ReplaceStateAndTeams overwrites the auction projections and the team roster in one
// write. The unsold listing is left alone.
func (s *Store) ReplaceStateAndTeams(state models.AuctionState, teams []models.Team) bool {
	nextState := normalizeState(state)
	nextTeams := nonNilTeams(models.CloneTeams(teams))
	return s.write("replace_state_teams", func() {
		s.state = nextState
		s.teams = nextTeams
	})
}

// ApplyTick applies the three results of one poll cycle together
func (s *Store) ApplyTick(t Tick) bool {
	state := normalizeState(t.State)
	teams := nonNilTeams(models.CloneTeams(t.Teams))
	unsold, _ := ingest.DedupePlayers(models.ClonePlayers(t.Unsold))
	return s.write("tick", func() {
		s.state = state
		s.teams = teams
		s.unsold = unsold
	})
}

// Snapshot returns a deep copy of the current projections
func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return View{
		State:  s.state.Clone(),
		Teams:  models.CloneTeams(s.teams),
		Unsold: models.ClonePlayers(s.unsold),
	}
}

// Version increases by one with every applied write
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// UpdatedAt is the time of the last applied write
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Changes signals after writes. Signals coalesce, so a reader woken once should read
// a fresh Snapshot. The channel is closed by Close.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// Close marks the store dead. Every later write is discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.changes)
}

// Closed reports whether Close has been called
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) write(op string, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		log.Debug().Str("op", op).Msg("discarding write to closed store")
		return false
	}

	apply()
	s.version++
	s.updatedAt = s.clock.Now()

	select {
	case s.changes <- struct{}{}:
	default:
	}
	return true
}

// soldTransaction builds the transaction for a sale pushed without one. Ids are the
// arrival time in milliseconds, bumped to stay unique within the store.
func (s *Store) soldTransaction(d PlayerSold) models.Transaction {
	now := s.clock.Now()
	id := now.UnixMilli()
	if id <= s.lastTxnID {
		id = s.lastTxnID + 1
	}
	s.lastTxnID = id

	ts := d.Timestamp
	if ts.IsZero() {
		ts = now
	}

	amount := d.Amount
	teamID := d.Team.ID
	player := d.Player.Clone()
	team := d.Team
	player.Status = models.PlayerStatusSold
	player.SoldPrice = &amount
	player.SoldToTeamID = &teamID
	player.SoldToTeam = &team

	return models.Transaction{
		ID:        strconv.FormatInt(id, 10),
		PlayerID:  d.Player.ID,
		Player:    player,
		TeamID:    d.Team.ID,
		Team:      d.Team,
		Amount:    d.Amount,
		Timestamp: ts,
	}
}

func normalizeState(state models.AuctionState) models.AuctionState {
	next := state.Clone()
	next.TeamSummaries = nonNilTeams(next.TeamSummaries)
	if next.RecentTransactions == nil {
		next.RecentTransactions = []models.Transaction{}
	}
	if len(next.RecentTransactions) > models.MaxRecentTransactions {
		next.RecentTransactions = next.RecentTransactions[:models.MaxRecentTransactions]
	}
	if next.HighestBuys == nil {
		next.HighestBuys = []models.Player{}
	}
	return next
}

func nonNilTeams(teams []models.Team) []models.Team {
	if teams == nil {
		return []models.Team{}
	}
	return teams
}
