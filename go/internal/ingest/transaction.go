package ingest

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// NormalizeTransaction converts one raw sale record
func NormalizeTransaction(raw []byte) (models.Transaction, error) {
	f, ok := parseObject(raw)
	if !ok {
		return models.Transaction{}, ErrInvalidRecord
	}
	return normalizeTransaction(f)
}

func normalizeTransaction(f fields) (models.Transaction, error) {
	id := f.identifier("id", "_id")
	if id == "" {
		return models.Transaction{}, ErrInvalidRecord
	}

	txn := models.Transaction{
		ID:        id,
		PlayerID:  f.identifier("playerId", "player_id"),
		TeamID:    f.identifier("teamId", "team_id"),
		Amount:    f.number("amount"),
		Timestamp: f.timestamp("createdAt", "created_at", "timestamp"),
	}

	if pf, ok := f.object("player"); ok {
		if p, err := normalizePlayer(pf); err == nil {
			txn.Player = p
		}
	}
	if tf, ok := f.object("team"); ok {
		if t, err := normalizeTeam(tf); err == nil {
			txn.Team = t
		}
	}

	if txn.PlayerID == "" {
		txn.PlayerID = txn.Player.ID
	}
	if txn.TeamID == "" {
		txn.TeamID = txn.Team.ID
	}
	if txn.PlayerID == "" || txn.TeamID == "" {
		return models.Transaction{}, ErrInvalidRecord
	}
	if txn.Player.ID == "" {
		txn.Player = models.Player{ID: txn.PlayerID, Status: models.PlayerStatusSold}
	}
	if txn.Team.ID == "" {
		txn.Team = models.Team{ID: txn.TeamID}
	}
	return txn, nil
}

func transactionList(r gjson.Result) ([]models.Transaction, Stats, error) {
	if r.Type == gjson.Null || !r.Exists() {
		return []models.Transaction{}, Stats{}, nil
	}
	if !r.IsArray() {
		return nil, Stats{}, ErrMalformedPayload
	}

	items := r.Array()
	stats := Stats{Total: len(items)}
	txns := make([]models.Transaction, 0, len(items))
	for _, item := range items {
		f, ok := objectFields(item)
		if !ok {
			stats.Invalid++
			continue
		}
		t, err := normalizeTransaction(f)
		if err != nil {
			stats.Invalid++
			continue
		}
		txns = append(txns, t)
	}

	out, dupes := dedupe(txns, func(t models.Transaction) string { return t.ID })
	stats.Duplicates = dupes
	return out, stats, nil
}

// timestamp accepts RFC 3339 style strings and epoch milliseconds. Unparseable values
// yield the zero time.
func (f fields) timestamp(names ...string) time.Time {
	v, ok := f.first(names...)
	if !ok {
		return time.Time{}
	}
	switch v.Type {
	case gjson.Number:
		return time.UnixMilli(v.Int()).UTC()
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}
