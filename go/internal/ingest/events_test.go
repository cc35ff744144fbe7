package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		check   func(t *testing.T, ev Event)
		wantErr error
	}{
		{
			name: "current player updated",
			msg:  `{"type":"auction:currentPlayerUpdated","data":{"id":7,"name":"Raina","SR":"136.7"}}`,
			check: func(t *testing.T, ev Event) {
				cp, ok := ev.(CurrentPlayerUpdated)
				require.True(t, ok)
				assert.Equal(t, "7", cp.Player.ID)
				assert.Equal(t, 136.7, cp.Player.StrikeRate)
			},
		},
		{
			name: "player sold",
			msg: `{"type":"auction:playerSold","data":{"player":{"id":"p"},"team":{"id":"t","name":"CSK"},` +
				`"amount":"6.5","timestamp":"2024-03-01T10:00:00.000Z"}}`,
			check: func(t *testing.T, ev Event) {
				sold, ok := ev.(PlayerSold)
				require.True(t, ok)
				assert.Equal(t, "p", sold.Player.ID)
				assert.Equal(t, "CSK", sold.Team.Name)
				assert.Equal(t, 6.5, sold.Amount)
				assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), sold.Timestamp)
			},
		},
		{
			name: "player sold without timestamp",
			msg:  `{"type":"auction:playerSold","data":{"player":{"id":"p"},"team":{"id":"t"},"amount":1}}`,
			check: func(t *testing.T, ev Event) {
				assert.True(t, ev.(PlayerSold).Timestamp.IsZero())
			},
		},
		{
			name: "state snapshot",
			msg:  `{"type":"auction:stateSnapshot","data":{"currentPlayer":null,"teamSummaries":[{"id":"t"}]}}`,
			check: func(t *testing.T, ev Event) {
				snap, ok := ev.(StateSnapshot)
				require.True(t, ok)
				assert.Nil(t, snap.State.CurrentPlayer)
				assert.Len(t, snap.State.TeamSummaries, 1)
			},
		},
		{
			name:    "player sold without team",
			msg:     `{"type":"auction:playerSold","data":{"player":{"id":"p"},"amount":1}}`,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "current player without id",
			msg:     `{"type":"auction:currentPlayerUpdated","data":{"name":"x"}}`,
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "unknown kind",
			msg:     `{"type":"auction:bidPlaced","data":{}}`,
			wantErr: ErrUnknownEvent,
		},
		{
			name:    "missing type",
			msg:     `{"data":{}}`,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "not json",
			msg:     `hello`,
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.msg))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, ev)
		})
	}
}

func TestEncodeRequestState(t *testing.T) {
	var env map[string]any
	require.NoError(t, json.Unmarshal(EncodeRequestState(), &env))
	assert.Equal(t, map[string]any{"type": "request:state"}, env)
}

func TestEncodeEventRoundTrip(t *testing.T) {
	msg, err := EncodeEvent(EventCurrentPlayerUpdated, map[string]any{"id": "p1", "name": "A"})
	require.NoError(t, err)

	ev, err := DecodeEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, EventCurrentPlayerUpdated, ev.Kind())
	assert.Equal(t, "p1", ev.(CurrentPlayerUpdated).Player.ID)
}
