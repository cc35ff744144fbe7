package portal

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/auctionfeed/go/internal/auction"
	"github.com/mcdev12/auctionfeed/go/internal/auction/store"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// Store is the part of the read model the portal reads and writes
type Store interface {
	ReplaceStateAndTeams(state models.AuctionState, teams []models.Team) bool
	Snapshot() store.View
}

// Portal is the team member's view: the live auction plus their own squad and
// analytics, and the squads of other teams on demand. A failed load keeps whatever
// was loaded before.
type Portal struct {
	backend auction.Backend
	store   Store
	user    models.User

	mu        sync.RWMutex
	squad     *models.Squad
	analytics *models.Analytics
	otherID   string
	other     *models.Squad
}

func New(backend auction.Backend, s Store, user models.User) *Portal {
	return &Portal{backend: backend, store: s, user: user}
}

// Load fetches auction state and team summaries, then the user's own squad and
// analytics when the user belongs to a team
func (p *Portal) Load(ctx context.Context) error {
	var (
		state models.AuctionState
		teams []models.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		state, err = p.backend.AuctionState(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = p.backend.TeamSummaries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load auction data")
		return fmt.Errorf("failed to load auction data: %w", err)
	}
	p.store.ReplaceStateAndTeams(state, teams)

	teamID := p.ownTeamID()
	if teamID == "" {
		return nil
	}

	var (
		squad     models.Squad
		analytics models.Analytics
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		squad, err = p.backend.TeamSquad(gctx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		analytics, err = p.backend.TeamAnalytics(gctx, teamID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("team_id", teamID).Msg("failed to load team data")
		return fmt.Errorf("failed to load team data: %w", err)
	}

	p.mu.Lock()
	p.squad = &squad
	p.analytics = &analytics
	p.mu.Unlock()
	return nil
}

// SelectTeam loads another team's squad
func (p *Portal) SelectTeam(ctx context.Context, teamID string) (models.Squad, error) {
	squad, err := p.backend.TeamSquad(ctx, teamID)
	if err != nil {
		log.Error().Err(err).Str("team_id", teamID).Msg("failed to load other team squad")
		return models.Squad{}, err
	}

	p.mu.Lock()
	p.otherID = teamID
	p.other = &squad
	p.mu.Unlock()
	return cloneSquad(squad), nil
}

func (p *Portal) User() models.User {
	return p.user
}

// MySquad returns the user's own squad once loaded
func (p *Portal) MySquad() (models.Squad, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.squad == nil {
		return models.Squad{}, false
	}
	return cloneSquad(*p.squad), true
}

func (p *Portal) Analytics() (models.Analytics, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.analytics == nil {
		return models.Analytics{}, false
	}
	return *p.analytics, true
}

// SelectedTeam returns the id and squad of the last team chosen with SelectTeam
func (p *Portal) SelectedTeam() (string, models.Squad, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.other == nil {
		return "", models.Squad{}, false
	}
	return p.otherID, cloneSquad(*p.other), true
}

// OtherTeams lists every team except the user's own, in roster order
func (p *Portal) OtherTeams() []models.Team {
	own := p.ownTeamID()
	view := p.store.Snapshot()

	teams := view.Teams
	if len(teams) == 0 {
		teams = view.State.TeamSummaries
	}
	out := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if t.ID != own {
			out = append(out, t)
		}
	}
	return out
}

func (p *Portal) ownTeamID() string {
	if p.user.Team == nil {
		return ""
	}
	return p.user.Team.ID
}

func cloneSquad(s models.Squad) models.Squad {
	s.Players = models.ClonePlayers(s.Players)
	return s
}
