package mockbackend

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/auction/push"
)

// NATSFanout republishes push messages on <prefix>.events and answers resync requests
// on <prefix>.requests.state with a snapshot on the events subject
type NATSFanout struct {
	nc       *nats.Conn
	sub      *nats.Subscription
	prefix   string
	snapshot SnapshotFunc
}

// NewNATSFanout connects to url and starts answering state requests
func NewNATSFanout(url, prefix string, snapshot SnapshotFunc) (*NATSFanout, error) {
	nc, err := nats.Connect(url,
		nats.Name("auctionfeed-mock-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	f := &NATSFanout{nc: nc, prefix: prefix, snapshot: snapshot}
	f.sub, err = nc.Subscribe(push.StateRequestSubject(prefix), f.handleStateRequest)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to state requests: %w", err)
	}

	log.Info().Str("url", url).Str("prefix", prefix).Msg("NATS fan-out enabled")
	return f, nil
}

// Broadcast publishes msg to every NATS viewer
func (f *NATSFanout) Broadcast(msg []byte) {
	if err := f.nc.Publish(push.EventsSubject(f.prefix), msg); err != nil {
		log.Error().Err(err).Msg("failed to publish event to NATS")
	}
}

func (f *NATSFanout) handleStateRequest(_ *nats.Msg) {
	snap, err := f.snapshot()
	if err != nil {
		log.Error().Err(err).Msg("failed to encode state snapshot")
		return
	}
	f.Broadcast(snap)
}

// Close drains the subscription and closes the connection
func (f *NATSFanout) Close() {
	if f.sub != nil {
		_ = f.sub.Unsubscribe()
	}
	f.nc.Close()
}
