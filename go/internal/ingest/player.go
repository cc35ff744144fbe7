package ingest

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// Stats reports what happened to the entries of an ingested list
type Stats struct {
	Total      int
	Invalid    int
	Duplicates int
}

// Kept returns the number of entries that survived ingestion
func (s Stats) Kept() int {
	return s.Total - s.Invalid - s.Duplicates
}

// NormalizePlayer converts one raw player record into a canonical Player.
// It returns ErrInvalidRecord when the record has no usable identifier.
func NormalizePlayer(raw []byte) (models.Player, error) {
	f, ok := parseObject(raw)
	if !ok {
		return models.Player{}, ErrInvalidRecord
	}
	return normalizePlayer(f)
}

// NormalizePlayers decodes a JSON array of player records, drops invalid entries and
// removes duplicate ids keeping the first occurrence. A null body is an empty list.
func NormalizePlayers(raw []byte) ([]models.Player, Stats, error) {
	if !gjson.ValidBytes(raw) {
		return nil, Stats{}, ErrMalformedPayload
	}
	return playerList(gjson.ParseBytes(raw))
}

func playerList(r gjson.Result) ([]models.Player, Stats, error) {
	if r.Type == gjson.Null || !r.Exists() {
		return []models.Player{}, Stats{}, nil
	}
	if !r.IsArray() {
		return nil, Stats{}, ErrMalformedPayload
	}

	items := r.Array()
	stats := Stats{Total: len(items)}
	players := make([]models.Player, 0, len(items))
	for _, item := range items {
		f, ok := objectFields(item)
		if !ok {
			stats.Invalid++
			continue
		}
		p, err := normalizePlayer(f)
		if err != nil {
			stats.Invalid++
			continue
		}
		players = append(players, p)
	}

	deduped, dupes := dedupe(players, func(p models.Player) string { return p.ID })
	stats.Duplicates = dupes
	return deduped, stats, nil
}

// DedupePlayers removes players with empty ids and repeated ids, keeping the first
// occurrence and the incoming order.
func DedupePlayers(players []models.Player) ([]models.Player, Stats) {
	stats := Stats{Total: len(players)}
	valid := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.ID == "" {
			stats.Invalid++
			continue
		}
		valid = append(valid, p)
	}
	out, dupes := dedupe(valid, func(p models.Player) string { return p.ID })
	stats.Duplicates = dupes
	return out, stats
}

func dedupe[T any](items []T, key func(T) string) ([]T, int) {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	dupes := 0
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			dupes++
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out, dupes
}

func normalizePlayer(f fields) (models.Player, error) {
	id := f.identifier("id", "_id")
	if id == "" {
		return models.Player{}, ErrInvalidRecord
	}

	p := models.Player{
		ID:         id,
		Name:       f.str("name"),
		Age:        f.integer("age"),
		Role:       parseRole(f.str("role")),
		Matches:    f.integer("matches"),
		Runs:       f.integer("runs"),
		Fifties:    f.integer("fifties", "50s"),
		Hundreds:   f.integer("hundreds", "100s"),
		StrikeRate: f.number("strikeRate", "SR", "sr", "strike_rate"),
		Wickets:    f.integer("wickets"),
		Economy:    f.number("economy"),
		BasePrice:  f.number("basePrice", "base_price"),
		Status:     parseStatus(f.str("status")),
	}

	if p.Status != models.PlayerStatusSold {
		return p, nil
	}

	price, hasPrice := f.first("soldPrice", "sold_price")
	teamID := f.identifier("soldToTeamId", "sold_to_team_id")
	if team, ok := f.object("soldToTeam", "sold_to_team"); ok {
		if t, err := normalizeTeam(team); err == nil {
			p.SoldToTeam = &t
			if teamID == "" {
				teamID = t.ID
			}
		}
	}
	if hasPrice && teamID != "" {
		amount := toNumber(price)
		p.SoldPrice = &amount
		p.SoldToTeamID = &teamID
	}
	return p, nil
}

func parseStatus(s string) models.PlayerStatus {
	if strings.EqualFold(strings.TrimSpace(s), string(models.PlayerStatusSold)) {
		return models.PlayerStatusSold
	}
	return models.PlayerStatusUnsold
}

var roleAliases = map[string]models.PlayerRole{
	"batsman":       models.RoleBatsman,
	"batter":        models.RoleBatsman,
	"bowler":        models.RoleBowler,
	"all-rounder":   models.RoleAllRounder,
	"all rounder":   models.RoleAllRounder,
	"allrounder":    models.RoleAllRounder,
	"wicket-keeper": models.RoleWicketKeeper,
	"wicket keeper": models.RoleWicketKeeper,
	"wicketkeeper":  models.RoleWicketKeeper,
}

// parseRole maps spelling variants onto the standard roles and passes anything else through
func parseRole(s string) models.PlayerRole {
	trimmed := strings.TrimSpace(s)
	if role, ok := roleAliases[strings.ToLower(trimmed)]; ok {
		return role
	}
	return models.PlayerRole(trimmed)
}
