package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// EventKind names a push message type
type EventKind string

const (
	EventCurrentPlayerUpdated EventKind = "auction:currentPlayerUpdated"
	EventPlayerSold           EventKind = "auction:playerSold"
	EventStateSnapshot        EventKind = "auction:stateSnapshot"

	// RequestState is the only message a client sends. It asks the server to push a
	// fresh state snapshot.
	RequestState EventKind = "request:state"
)

// Envelope is the wire shape of every push message
type Envelope struct {
	Type EventKind       `json:"type"`           // Event kind
	Data json.RawMessage `json:"data,omitempty"` // Kind specific payload
}

// Event is a decoded push message. Concrete values are CurrentPlayerUpdated, PlayerSold
// and StateSnapshot.
type Event interface {
	Kind() EventKind
}

// CurrentPlayerUpdated announces the player now on the block
type CurrentPlayerUpdated struct {
	Player models.Player
}

// PlayerSold announces a completed sale
type PlayerSold struct {
	Player    models.Player
	Team      models.Team
	Amount    float64
	Timestamp time.Time // zero when the server did not send one
}

// StateSnapshot carries the complete auction state
type StateSnapshot struct {
	State models.AuctionState
}

func (CurrentPlayerUpdated) Kind() EventKind { return EventCurrentPlayerUpdated }
func (PlayerSold) Kind() EventKind           { return EventPlayerSold }
func (StateSnapshot) Kind() EventKind        { return EventStateSnapshot }

// DecodeEnvelope reads the envelope of a push message without touching its payload
func DecodeEnvelope(msg []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", ErrMalformedPayload)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("envelope has no type: %w", ErrMalformedPayload)
	}
	return env, nil
}

// DecodeEvent decodes a complete push message into its typed event
func DecodeEvent(msg []byte) (Event, error) {
	env, err := DecodeEnvelope(msg)
	if err != nil {
		return nil, err
	}
	return DecodePayload(env.Type, env.Data)
}

// DecodePayload decodes the payload of an already classified push message
func DecodePayload(kind EventKind, data []byte) (Event, error) {
	switch kind {
	case EventCurrentPlayerUpdated:
		p, err := NormalizePlayer(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return CurrentPlayerUpdated{Player: p}, nil

	case EventPlayerSold:
		f, ok := parseObject(data)
		if !ok {
			return nil, fmt.Errorf("%s: %w", kind, ErrMalformedPayload)
		}
		pf, ok := f.object("player")
		if !ok {
			return nil, fmt.Errorf("%s: missing player: %w", kind, ErrMalformedPayload)
		}
		player, err := normalizePlayer(pf)
		if err != nil {
			return nil, fmt.Errorf("%s: player: %w", kind, err)
		}
		tf, ok := f.object("team")
		if !ok {
			return nil, fmt.Errorf("%s: missing team: %w", kind, ErrMalformedPayload)
		}
		team, err := normalizeTeam(tf)
		if err != nil {
			return nil, fmt.Errorf("%s: team: %w", kind, err)
		}
		return PlayerSold{
			Player:    player,
			Team:      team,
			Amount:    f.number("amount"),
			Timestamp: f.timestamp("timestamp", "createdAt"),
		}, nil

	case EventStateSnapshot:
		state, err := DecodeAuctionState(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return StateSnapshot{State: state}, nil

	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownEvent)
	}
}

// EncodeRequestState builds the resync request a client sends after connecting
func EncodeRequestState() []byte {
	msg, _ := json.Marshal(Envelope{Type: RequestState})
	return msg
}

// EncodeEvent wraps a payload into a push envelope
func EncodeEvent(kind EventKind, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}
	return json.Marshal(Envelope{Type: kind, Data: data})
}
