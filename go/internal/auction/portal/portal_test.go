package portal

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/mcdev12/auctionfeed/go/internal/auction/mocks"
	"github.com/mcdev12/auctionfeed/go/internal/auction/store"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

type PortalTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockBackend *mocks.MockBackend
	store       *store.Store
	ctx         context.Context

	teamUser    models.User
	managerUser models.User
	teams       []models.Team
	squad       models.Squad
	analytics   models.Analytics
}

func TestPortalSuite(t *testing.T) {
	suite.Run(t, new(PortalTestSuite))
}

func (s *PortalTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockBackend = mocks.NewMockBackend(s.mockCtrl)
	s.store = store.New(clockwork.NewFakeClock())
	s.ctx = context.Background()

	s.teamUser = models.User{ID: "u2", Username: "csk", Role: models.UserRoleTeam, Team: &models.TeamRef{ID: "t1", Name: "CSK"}}
	s.managerUser = models.User{ID: "u1", Username: "manager", Role: models.UserRoleManager}
	s.teams = []models.Team{{ID: "t1", Name: "CSK"}, {ID: "t2", Name: "MI"}, {ID: "t3", Name: "RCB"}}
	s.squad = models.Squad{Name: "CSK", PlayersCount: 1, Players: []models.Player{{ID: "p1"}}}
	s.analytics = models.Analytics{AverageSpend: 6.5, RoleDistribution: map[string]int{"Batsman": 1}}
}

func (s *PortalTestSuite) expectAuctionReads() {
	s.mockBackend.EXPECT().AuctionState(gomock.Any()).Return(models.AuctionState{TeamSummaries: s.teams}, nil)
	s.mockBackend.EXPECT().TeamSummaries(gomock.Any()).Return(s.teams, nil)
}

func (s *PortalTestSuite) TestLoadForTeamUser() {
	s.expectAuctionReads()
	s.mockBackend.EXPECT().TeamSquad(gomock.Any(), "t1").Return(s.squad, nil)
	s.mockBackend.EXPECT().TeamAnalytics(gomock.Any(), "t1").Return(s.analytics, nil)

	p := New(s.mockBackend, s.store, s.teamUser)
	s.Require().NoError(p.Load(s.ctx))

	squad, ok := p.MySquad()
	s.Require().True(ok)
	s.Equal(s.squad, squad)
	analytics, ok := p.Analytics()
	s.Require().True(ok)
	s.Equal(6.5, analytics.AverageSpend)
	s.Len(s.store.Snapshot().Teams, 3)

	others := p.OtherTeams()
	s.Require().Len(others, 2)
	s.Equal("t2", others[0].ID)
}

func (s *PortalTestSuite) TestLoadForManagerSkipsTeamData() {
	s.expectAuctionReads()

	p := New(s.mockBackend, s.store, s.managerUser)
	s.Require().NoError(p.Load(s.ctx))

	_, ok := p.MySquad()
	s.False(ok)
	s.Len(p.OtherTeams(), 3)
}

func (s *PortalTestSuite) TestLoadWritesStateAndTeamsTogether() {
	s.expectAuctionReads()

	p := New(s.mockBackend, s.store, s.managerUser)
	s.Require().NoError(p.Load(s.ctx))

	s.Equal(uint64(1), s.store.Version())
	s.Equal(s.teams, s.store.Snapshot().Teams)
}

func (s *PortalTestSuite) TestFailedReloadKeepsPriorData() {
	s.expectAuctionReads()
	s.mockBackend.EXPECT().TeamSquad(gomock.Any(), "t1").Return(s.squad, nil)
	s.mockBackend.EXPECT().TeamAnalytics(gomock.Any(), "t1").Return(s.analytics, nil)
	p := New(s.mockBackend, s.store, s.teamUser)
	s.Require().NoError(p.Load(s.ctx))

	s.expectAuctionReads()
	s.mockBackend.EXPECT().TeamSquad(gomock.Any(), "t1").Return(models.Squad{}, errors.New("down"))
	s.mockBackend.EXPECT().TeamAnalytics(gomock.Any(), "t1").Return(models.Analytics{}, nil).AnyTimes()

	s.Error(p.Load(s.ctx))
	squad, ok := p.MySquad()
	s.Require().True(ok)
	s.Equal("CSK", squad.Name)
}

func (s *PortalTestSuite) TestFailedAuctionReadSkipsStore() {
	s.mockBackend.EXPECT().AuctionState(gomock.Any()).Return(models.AuctionState{}, errors.New("down"))
	s.mockBackend.EXPECT().TeamSummaries(gomock.Any()).Return(s.teams, nil).AnyTimes()

	p := New(s.mockBackend, s.store, s.teamUser)
	s.Error(p.Load(s.ctx))
	s.Zero(s.store.Version())
}

func (s *PortalTestSuite) TestSelectTeam() {
	other := models.Squad{Name: "MI", Players: []models.Player{{ID: "p9"}}}
	s.mockBackend.EXPECT().TeamSquad(s.ctx, "t2").Return(other, nil)

	p := New(s.mockBackend, s.store, s.teamUser)
	squad, err := p.SelectTeam(s.ctx, "t2")
	s.Require().NoError(err)
	s.Equal("MI", squad.Name)

	id, selected, ok := p.SelectedTeam()
	s.True(ok)
	s.Equal("t2", id)
	s.Equal(other, selected)
}

func (s *PortalTestSuite) TestSelectTeamFailureKeepsPrevious() {
	s.mockBackend.EXPECT().TeamSquad(s.ctx, "t2").Return(models.Squad{Name: "MI"}, nil)
	s.mockBackend.EXPECT().TeamSquad(s.ctx, "t3").Return(models.Squad{}, errors.New("down"))

	p := New(s.mockBackend, s.store, s.teamUser)
	_, err := p.SelectTeam(s.ctx, "t2")
	s.Require().NoError(err)
	_, err = p.SelectTeam(s.ctx, "t3")
	s.Error(err)

	id, squad, _ := p.SelectedTeam()
	s.Equal("t2", id)
	s.Equal("MI", squad.Name)
}
