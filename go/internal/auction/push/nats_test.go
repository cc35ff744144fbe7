package push

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
)

func TestNATSSubjects(t *testing.T) {
	assert.Equal(t, "auction.events", EventsSubject("auction"))
	assert.Equal(t, "ipl.requests.state", StateRequestSubject("ipl"))
}

func TestNATSChannelWithoutServer(t *testing.T) {
	config := DefaultNATSConfig()
	config.URL = "nats://127.0.0.1:1"
	config.ReconnectWait = 10 * time.Millisecond
	ch := NewNATSChannel(config)

	_, err := ch.Subscribe(ingest.EventStateSnapshot, func([]byte) {})
	require.NoError(t, err)

	err = ch.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, ch.Connected())
	assert.ErrorIs(t, ch.RequestState(context.Background()), ErrNotConnected)

	require.NoError(t, ch.Disconnect())
	assert.Zero(t, ch.Subscriptions())
}

func TestNATSChannelNeedsPrefix(t *testing.T) {
	config := DefaultNATSConfig()
	config.Prefix = ""
	assert.ErrorIs(t, NewNATSChannel(config).Connect(context.Background()), ErrNoEndpoint)
}
