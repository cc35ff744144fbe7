package push

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/mcdev12/auctionfeed/go/internal/auction/store"
	"github.com/mcdev12/auctionfeed/go/internal/ingest"
)

// fakeChannel is an in-memory Channel driven by the test
type fakeChannel struct {
	subs        *registry
	connects    int
	disconnects int
	connectErr  error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{subs: newRegistry()}
}

func (f *fakeChannel) Connect(context.Context) error {
	f.connects++
	return f.connectErr
}

func (f *fakeChannel) Subscribe(kind ingest.EventKind, h Handler) (*Subscription, error) {
	return f.subs.add(kind, h)
}

func (f *fakeChannel) RequestState(context.Context) error { return nil }

func (f *fakeChannel) Disconnect() error {
	f.disconnects++
	f.subs.clear()
	return nil
}

func (f *fakeChannel) Connected() bool { return f.connects > f.disconnects }

func (f *fakeChannel) deliver(msg string) {
	f.subs.dispatch([]byte(msg))
}

type ListenerTestSuite struct {
	suite.Suite
	clock    *clockwork.FakeClock
	store    *store.Store
	channel  *fakeChannel
	listener *Listener
	ctx      context.Context
}

func TestListenerSuite(t *testing.T) {
	suite.Run(t, new(ListenerTestSuite))
}

func (s *ListenerTestSuite) SetupTest() {
	s.clock = clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	s.store = store.New(s.clock)
	s.channel = newFakeChannel()
	s.listener = NewListener(s.channel, s.store)
	s.ctx = context.Background()
}

func (s *ListenerTestSuite) TestStartSubscribesEachKindOnce() {
	s.Require().NoError(s.listener.Start(s.ctx))
	s.Require().NoError(s.listener.Start(s.ctx))

	s.Equal(3, s.channel.subs.count())
	s.Equal(1, s.channel.connects)
}

func (s *ListenerTestSuite) TestStopReleasesSubscriptions() {
	s.Require().NoError(s.listener.Start(s.ctx))
	s.Require().NoError(s.listener.Stop())

	s.Zero(s.channel.subs.count())
	s.Equal(1, s.channel.disconnects)

	s.Require().NoError(s.listener.Start(s.ctx))
	s.Equal(3, s.channel.subs.count())
}

func (s *ListenerTestSuite) TestSnapshotReplacesState() {
	s.Require().NoError(s.listener.Start(s.ctx))

	s.channel.deliver(`{"type":"auction:stateSnapshot","data":{
		"currentPlayer": {"id": "p1", "name": "Raina"},
		"teamSummaries": [{"id": "t1", "name": "CSK", "initialBudget": 100, "remainingBudget": 100}],
		"recentTransactions": [],
		"highestBuys": []
	}}`)

	view := s.store.Snapshot()
	s.Require().NotNil(view.State.CurrentPlayer)
	s.Equal("Raina", view.State.CurrentPlayer.Name)
	s.Len(view.State.TeamSummaries, 1)
}

func (s *ListenerTestSuite) TestPlayerSoldWhileCurrent() {
	s.Require().NoError(s.listener.Start(s.ctx))
	s.channel.deliver(`{"type":"auction:currentPlayerUpdated","data":{"id":"P","name":"Raina"}}`)
	s.Require().NotNil(s.store.Snapshot().State.CurrentPlayer)

	s.channel.deliver(`{"type":"auction:playerSold","data":{"player":{"id":"P","name":"Raina"},"team":{"id":"T","name":"CSK"},"amount":6.5}}`)

	view := s.store.Snapshot()
	s.Nil(view.State.CurrentPlayer)
	s.Require().Len(view.State.RecentTransactions, 1)
	txn := view.State.RecentTransactions[0]
	s.Equal("P", txn.PlayerID)
	s.Equal("T", txn.TeamID)
	s.Equal(6.5, txn.Amount)
}

func (s *ListenerTestSuite) TestMalformedPayloadLeavesStoreUntouched() {
	s.Require().NoError(s.listener.Start(s.ctx))
	s.channel.deliver(`{"type":"auction:currentPlayerUpdated","data":{"id":"P"}}`)
	before := s.store.Version()

	s.channel.deliver(`{"type":"auction:currentPlayerUpdated","data":{"name":"no id"}}`)
	s.channel.deliver(`{"type":"auction:playerSold","data":{"player":{"id":"P"}}}`)
	s.channel.deliver(`{"type":"auction:stateSnapshot","data":"oops"}`)

	s.Equal(before, s.store.Version())
	s.Equal("P", s.store.Snapshot().State.CurrentPlayer.ID)
}

func (s *ListenerTestSuite) TestEventsAfterStoreCloseAreDiscarded() {
	s.Require().NoError(s.listener.Start(s.ctx))
	s.store.Close()

	s.channel.deliver(`{"type":"auction:currentPlayerUpdated","data":{"id":"P"}}`)

	s.Nil(s.store.Snapshot().State.CurrentPlayer)
}

func (s *ListenerTestSuite) TestConnectErrorIsReturned() {
	s.channel.connectErr = ErrNoEndpoint

	err := s.listener.Start(s.ctx)
	s.ErrorIs(err, ErrNoEndpoint)
}
