package session

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/mcdev12/auctionfeed/go/internal/auction/actions"
	"github.com/mcdev12/auctionfeed/go/internal/auction/mocks"
	"github.com/mcdev12/auctionfeed/go/internal/auction/poll"
	"github.com/mcdev12/auctionfeed/go/internal/auction/push"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

type SessionTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockBackend *mocks.MockBackend
	ctx         context.Context

	manager models.User
	member  models.User
	teams   []models.Team
	state   models.AuctionState
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockBackend = mocks.NewMockBackend(s.mockCtrl)
	s.ctx = context.Background()

	s.manager = models.User{ID: "1", Username: "manager", Role: models.UserRoleManager}
	s.member = models.User{ID: "2", Username: "csk", Role: models.UserRoleTeam, Team: &models.TeamRef{ID: "t1", Name: "CSK"}}
	s.teams = []models.Team{{ID: "t1", Name: "Chennai Super Kings"}}
	current := models.Player{ID: "p1", Name: "Raina"}
	s.state = models.AuctionState{CurrentPlayer: &current, TeamSummaries: s.teams}
}

func (s *SessionTestSuite) newSession(user models.User, channel push.Channel) *Session {
	return New(Config{
		Backend: s.mockBackend,
		Channel: channel,
		Clock:   clockwork.NewFakeClock(),
		Poll:    poll.Config{Disabled: true},
		User:    user,
	})
}

func (s *SessionTestSuite) TestManagerStartLoadsEverything() {
	s.mockBackend.EXPECT().UnsoldPlayers(gomock.Any(), models.PlayerFilter{}).Return([]models.Player{{ID: "u1"}}, nil)
	s.mockBackend.EXPECT().AuctionState(gomock.Any()).Return(s.state, nil)
	s.mockBackend.EXPECT().TeamSummaries(gomock.Any()).Return(s.teams, nil)

	sess := s.newSession(s.manager, nil)
	s.Require().NoError(sess.Start(s.ctx))
	defer sess.Close()

	view := sess.Store().Snapshot()
	s.Equal("p1", view.State.CurrentPlayer.ID)
	s.Len(view.Unsold, 1)
	s.Len(view.Teams, 1)
}

func (s *SessionTestSuite) TestTeamStartLoadsPortal() {
	s.mockBackend.EXPECT().AuctionState(gomock.Any()).Return(s.state, nil)
	s.mockBackend.EXPECT().TeamSummaries(gomock.Any()).Return(s.teams, nil)
	s.mockBackend.EXPECT().TeamSquad(gomock.Any(), "t1").Return(models.Squad{Name: "CSK"}, nil)
	s.mockBackend.EXPECT().TeamAnalytics(gomock.Any(), "t1").Return(models.Analytics{}, nil)

	sess := s.newSession(s.member, nil)
	s.Require().NoError(sess.Start(s.ctx))
	defer sess.Close()

	squad, ok := sess.Portal().MySquad()
	s.True(ok)
	s.Equal("CSK", squad.Name)
}

func (s *SessionTestSuite) TestInitialLoadFailureIsNotFatal() {
	s.mockBackend.EXPECT().UnsoldPlayers(gomock.Any(), gomock.Any()).Return(nil, errors.New("down"))
	s.mockBackend.EXPECT().AuctionState(gomock.Any()).Return(s.state, nil).AnyTimes()
	s.mockBackend.EXPECT().TeamSummaries(gomock.Any()).Return(s.teams, nil).AnyTimes()

	sess := s.newSession(s.manager, nil)
	s.NoError(sess.Start(s.ctx))
	sess.Close()
}

func (s *SessionTestSuite) TestPushFailureFallsBackToPolling() {
	s.mockBackend.EXPECT().UnsoldPlayers(gomock.Any(), gomock.Any()).Return(nil, nil)
	s.mockBackend.EXPECT().AuctionState(gomock.Any()).Return(s.state, nil)
	s.mockBackend.EXPECT().TeamSummaries(gomock.Any()).Return(s.teams, nil)

	channel := push.NewWebsocketChannel(push.DefaultWebsocketConfig("", nil))
	sess := s.newSession(s.manager, channel)
	s.Require().NoError(sess.Start(s.ctx))
	defer sess.Close()

	s.NotNil(sess.Store().Snapshot().State.CurrentPlayer)
}

func (s *SessionTestSuite) TestRecordSaleUsesTeamName() {
	s.mockBackend.EXPECT().UnsoldPlayers(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	s.mockBackend.EXPECT().AuctionState(gomock.Any()).Return(s.state, nil).Times(2)
	s.mockBackend.EXPECT().TeamSummaries(gomock.Any()).Return(s.teams, nil).Times(2)
	s.mockBackend.EXPECT().SellPlayer(gomock.Any(), "t1", 6.5).Return(models.Transaction{}, nil)

	sess := s.newSession(s.manager, nil)
	s.Require().NoError(sess.Start(s.ctx))
	defer sess.Close()

	notice, err := sess.Actions().RecordSale(s.ctx, actions.SaleInput{TeamID: "t1", Amount: "6.5"})
	s.Require().NoError(err)
	s.Equal("Player sold to Chennai Super Kings for ₹6.5 Cr!", notice.Text)
}

func (s *SessionTestSuite) TestCloseDiscardsLateWrites() {
	s.mockBackend.EXPECT().UnsoldPlayers(gomock.Any(), gomock.Any()).Return(nil, nil)
	s.mockBackend.EXPECT().AuctionState(gomock.Any()).Return(s.state, nil)
	s.mockBackend.EXPECT().TeamSummaries(gomock.Any()).Return(s.teams, nil)

	sess := s.newSession(s.manager, nil)
	s.Require().NoError(sess.Start(s.ctx))
	sess.Close()
	sess.Close()

	s.True(sess.Store().Closed())
	s.False(sess.Store().ReplaceAll(models.AuctionState{}))
	s.NotNil(sess.Store().Snapshot().State.CurrentPlayer)

	s.NoError(sess.Start(s.ctx))
}
