package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
)

// wsServer is a minimal push endpoint that records client messages
type wsServer struct {
	*httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    []*websocket.Conn
	received []string
	auth     []string
	accepts  int
	reject   bool
}

func newWSServer() *wsServer {
	s := &wsServer{upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *wsServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reject := s.reject
	s.mu.Unlock()
	if reject {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	s.accepts++
	s.mu.Unlock()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.received = append(s.received, string(msg))
		s.mu.Unlock()
	}
}

func (s *wsServer) url() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *wsServer) broadcast(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.WriteMessage(websocket.TextMessage, []byte(msg))
	}
}

func (s *wsServer) dropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	s.conns = nil
}

func (s *wsServer) stateRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.received {
		if strings.Contains(m, string(ingest.RequestState)) {
			n++
		}
	}
	return n
}

func (s *wsServer) setReject(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = reject
}

func (s *wsServer) acceptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepts
}

type WebsocketChannelTestSuite struct {
	suite.Suite
	server  *wsServer
	channel *WebsocketChannel
	ctx     context.Context
	cancel  context.CancelFunc
}

func TestWebsocketChannelSuite(t *testing.T) {
	suite.Run(t, new(WebsocketChannelTestSuite))
}

func (s *WebsocketChannelTestSuite) SetupTest() {
	s.server = newWSServer()
	config := DefaultWebsocketConfig(s.server.url(), func() string { return "tok" })
	config.InitialBackoff = 10 * time.Millisecond
	config.MaxBackoff = 50 * time.Millisecond
	s.channel = NewWebsocketChannel(config)
	s.ctx, s.cancel = context.WithCancel(context.Background())
}

func (s *WebsocketChannelTestSuite) TearDownTest() {
	s.Require().NoError(s.channel.Disconnect())
	s.cancel()
	s.server.Close()
}

// waitConnected waits until both ends see the connection and the first resync
// request has arrived
func (s *WebsocketChannelTestSuite) waitConnected() {
	s.Require().Eventually(func() bool {
		return s.channel.Connected() && s.server.stateRequests() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *WebsocketChannelTestSuite) TestConnectRequestsStateWithBearerToken() {
	s.Require().NoError(s.channel.Connect(s.ctx))
	s.waitConnected()

	s.Eventually(func() bool { return s.server.stateRequests() == 1 }, time.Second, 10*time.Millisecond)
	s.server.mu.Lock()
	s.Equal([]string{"Bearer tok"}, s.server.auth)
	s.server.mu.Unlock()
}

func (s *WebsocketChannelTestSuite) TestConnectIsIdempotent() {
	s.Require().NoError(s.channel.Connect(s.ctx))
	s.Require().NoError(s.channel.Connect(s.ctx))
	s.waitConnected()

	s.Never(func() bool { return s.server.acceptCount() > 1 }, 200*time.Millisecond, 20*time.Millisecond)
}

func (s *WebsocketChannelTestSuite) TestSubscribeDispatchesAndReplaces() {
	first := make(chan string, 4)
	second := make(chan string, 4)

	_, err := s.channel.Subscribe(ingest.EventCurrentPlayerUpdated, func(data []byte) { first <- string(data) })
	s.Require().NoError(err)
	_, err = s.channel.Subscribe(ingest.EventCurrentPlayerUpdated, func(data []byte) { second <- string(data) })
	s.Require().NoError(err)
	s.Equal(1, s.channel.Subscriptions())

	s.Require().NoError(s.channel.Connect(s.ctx))
	s.waitConnected()
	s.server.broadcast(`{"type":"auction:currentPlayerUpdated","data":{"id":"p1"}}`)

	select {
	case data := <-second:
		s.JSONEq(`{"id":"p1"}`, data)
	case <-time.After(2 * time.Second):
		s.Fail("handler not called")
	}
	s.Empty(first)
}

func (s *WebsocketChannelTestSuite) TestStaleUnsubscribeKeepsReplacement() {
	old, err := s.channel.Subscribe(ingest.EventPlayerSold, func([]byte) {})
	s.Require().NoError(err)
	_, err = s.channel.Subscribe(ingest.EventPlayerSold, func([]byte) {})
	s.Require().NoError(err)

	old.Unsubscribe()
	old.Unsubscribe()
	s.Equal(1, s.channel.Subscriptions())
}

func (s *WebsocketChannelTestSuite) TestMalformedMessagesAreDropped() {
	got := make(chan string, 4)
	_, err := s.channel.Subscribe(ingest.EventStateSnapshot, func(data []byte) { got <- string(data) })
	s.Require().NoError(err)

	s.Require().NoError(s.channel.Connect(s.ctx))
	s.waitConnected()
	s.server.broadcast(`not json`)
	s.server.broadcast(`{"type":"auction:unknown"}`)
	s.server.broadcast(`{"type":"auction:stateSnapshot","data":{}}`)

	select {
	case data := <-got:
		s.JSONEq(`{}`, data)
	case <-time.After(2 * time.Second):
		s.Fail("snapshot not delivered")
	}
	s.True(s.channel.Connected())
}

func (s *WebsocketChannelTestSuite) TestReconnectRequestsStateAgain() {
	s.Require().NoError(s.channel.Connect(s.ctx))
	s.waitConnected()
	s.Require().Eventually(func() bool { return s.server.stateRequests() == 1 }, time.Second, 10*time.Millisecond)

	s.server.dropAll()

	s.Eventually(func() bool { return s.server.acceptCount() == 2 }, 2*time.Second, 10*time.Millisecond)
	s.Eventually(func() bool { return s.server.stateRequests() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func (s *WebsocketChannelTestSuite) TestDisconnectReleasesSubscriptions() {
	_, err := s.channel.Subscribe(ingest.EventStateSnapshot, func([]byte) {})
	s.Require().NoError(err)
	_, err = s.channel.Subscribe(ingest.EventPlayerSold, func([]byte) {})
	s.Require().NoError(err)
	s.Require().NoError(s.channel.Connect(s.ctx))
	s.waitConnected()

	s.Require().NoError(s.channel.Disconnect())

	s.False(s.channel.Connected())
	s.Zero(s.channel.Subscriptions())
	s.ErrorIs(s.channel.RequestState(s.ctx), ErrNotConnected)
}

func (s *WebsocketChannelTestSuite) TestRequestStateOnDemand() {
	s.Require().NoError(s.channel.Connect(s.ctx))
	s.waitConnected()

	s.Require().NoError(s.channel.RequestState(s.ctx))
	s.Eventually(func() bool { return s.server.stateRequests() == 2 }, time.Second, 10*time.Millisecond)
}

func TestWebsocketChannelNeedsURL(t *testing.T) {
	ch := NewWebsocketChannel(DefaultWebsocketConfig("", nil))
	if err := ch.Connect(context.Background()); err != ErrNoEndpoint {
		t.Fatalf("expected ErrNoEndpoint, got %v", err)
	}
}

func (s *WebsocketChannelTestSuite) TestConnectRetriesAfterRejectedCredentials() {
	s.server.setReject(true)
	s.Require().NoError(s.channel.Connect(s.ctx))

	s.Require().Eventually(func() bool {
		s.channel.mu.Lock()
		defer s.channel.mu.Unlock()
		return s.channel.cancel == nil
	}, 2*time.Second, 10*time.Millisecond)
	s.False(s.channel.Connected())

	s.server.setReject(false)
	s.Require().NoError(s.channel.Connect(s.ctx))
	s.waitConnected()
	s.Equal(1, s.server.acceptCount())
}
