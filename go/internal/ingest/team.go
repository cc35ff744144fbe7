package ingest

import (
	"github.com/tidwall/gjson"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// NormalizeTeam converts one raw team record. Spent is always derived from the two
// budget figures so that it reconciles.
func NormalizeTeam(raw []byte) (models.Team, error) {
	f, ok := parseObject(raw)
	if !ok {
		return models.Team{}, ErrInvalidRecord
	}
	return normalizeTeam(f)
}

// DecodeTeams decodes a JSON array of teams, dropping invalid and duplicate entries
func DecodeTeams(raw []byte) ([]models.Team, Stats, error) {
	if !gjson.ValidBytes(raw) {
		return nil, Stats{}, ErrMalformedPayload
	}
	return teamList(gjson.ParseBytes(raw))
}

func teamList(r gjson.Result) ([]models.Team, Stats, error) {
	if r.Type == gjson.Null || !r.Exists() {
		return []models.Team{}, Stats{}, nil
	}
	if !r.IsArray() {
		return nil, Stats{}, ErrMalformedPayload
	}

	items := r.Array()
	stats := Stats{Total: len(items)}
	teams := make([]models.Team, 0, len(items))
	for _, item := range items {
		f, ok := objectFields(item)
		if !ok {
			stats.Invalid++
			continue
		}
		t, err := normalizeTeam(f)
		if err != nil {
			stats.Invalid++
			continue
		}
		teams = append(teams, t)
	}

	out, dupes := dedupe(teams, func(t models.Team) string { return t.ID })
	stats.Duplicates = dupes
	return out, stats, nil
}

func normalizeTeam(f fields) (models.Team, error) {
	id := f.identifier("id", "_id")
	if id == "" {
		return models.Team{}, ErrInvalidRecord
	}

	remaining := f.number("remainingBudget", "remaining_budget")
	initial := f.number("initialBudget", "initial_budget")
	if !f.has("initialBudget", "initial_budget") {
		// Without an initial budget the best reconstruction is remaining plus spent.
		initial = remaining + f.number("spent", "totalSpent", "total_spent")
	}

	return models.Team{
		ID:              id,
		Name:            f.str("name"),
		InitialBudget:   initial,
		RemainingBudget: remaining,
		Spent:           initial - remaining,
		PlayersCount:    f.integer("playersCount", "players_count"),
	}, nil
}
