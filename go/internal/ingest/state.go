package ingest

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// DecodeAuctionState decodes the composite auction state. A current player that fails
// normalization is treated as absent; list entries are filtered per record.
func DecodeAuctionState(raw []byte) (models.AuctionState, error) {
	f, ok := parseObject(raw)
	if !ok {
		return models.AuctionState{}, fmt.Errorf("auction state: %w", ErrMalformedPayload)
	}
	return auctionState(f)
}

func auctionState(f fields) (models.AuctionState, error) {
	var state models.AuctionState

	if pf, ok := f.object("currentPlayer", "current_player"); ok {
		if p, err := normalizePlayer(pf); err == nil {
			state.CurrentPlayer = &p
		}
	}

	teams, _, err := teamList(f["teamSummaries"])
	if err != nil {
		return models.AuctionState{}, fmt.Errorf("team summaries: %w", err)
	}
	state.TeamSummaries = teams

	txns, _, err := transactionList(f["recentTransactions"])
	if err != nil {
		return models.AuctionState{}, fmt.Errorf("recent transactions: %w", err)
	}
	if len(txns) > models.MaxRecentTransactions {
		txns = txns[:models.MaxRecentTransactions]
	}
	state.RecentTransactions = txns

	buys, _, err := playerList(f["highestBuys"])
	if err != nil {
		return models.AuctionState{}, fmt.Errorf("highest buys: %w", err)
	}
	state.HighestBuys = buys

	return state, nil
}

// DecodeSquad decodes a team squad response
func DecodeSquad(raw []byte) (models.Squad, error) {
	f, ok := parseObject(raw)
	if !ok {
		return models.Squad{}, fmt.Errorf("squad: %w", ErrMalformedPayload)
	}

	players, _, err := playerList(f["players"])
	if err != nil {
		return models.Squad{}, fmt.Errorf("squad players: %w", err)
	}

	return models.Squad{
		Name:            f.str("name"),
		PlayersCount:    f.integer("playersCount", "players_count"),
		TotalSpent:      f.number("totalSpent", "total_spent"),
		RemainingBudget: f.number("remainingBudget", "remaining_budget"),
		Players:         players,
	}, nil
}

// DecodeAnalytics decodes a team analytics response
func DecodeAnalytics(raw []byte) (models.Analytics, error) {
	f, ok := parseObject(raw)
	if !ok {
		return models.Analytics{}, fmt.Errorf("analytics: %w", ErrMalformedPayload)
	}

	a := models.Analytics{
		AverageSpend:     f.number("averageSpend", "average_spend"),
		RoleDistribution: map[string]int{},
		SpendByRole:      map[string]float64{},
	}
	if pf, ok := f.object("highestBuy"); ok {
		if p, err := normalizePlayer(pf); err == nil {
			a.HighestBuy = &p
		}
	}
	if pf, ok := f.object("lowestBuy"); ok {
		if p, err := normalizePlayer(pf); err == nil {
			a.LowestBuy = &p
		}
	}
	if dist, ok := f.object("roleDistribution"); ok {
		for role, v := range dist {
			a.RoleDistribution[role] = int(toNumber(v))
		}
	}
	if spend, ok := f.object("spendByRole"); ok {
		for role, v := range spend {
			a.SpendByRole[role] = toNumber(v)
		}
	}
	return a, nil
}

// DecodeLogin decodes the login response into the bearer token and user profile
func DecodeLogin(raw []byte) (string, models.User, error) {
	f, ok := parseObject(raw)
	if !ok {
		return "", models.User{}, fmt.Errorf("login response: %w", ErrMalformedPayload)
	}

	token := strings.TrimSpace(f.str("token"))
	if token == "" {
		return "", models.User{}, fmt.Errorf("login response has no token: %w", ErrMalformedPayload)
	}

	uf, ok := f.object("user")
	if !ok {
		return "", models.User{}, fmt.Errorf("login response has no user: %w", ErrMalformedPayload)
	}
	user := models.User{
		ID:       uf.identifier("id", "_id"),
		Username: uf.str("username"),
		Role:     models.UserRole(strings.ToUpper(strings.TrimSpace(uf.str("role")))),
	}
	if user.ID == "" {
		return "", models.User{}, fmt.Errorf("login user: %w", ErrInvalidRecord)
	}
	if tf, ok := uf.object("team"); ok {
		if id := tf.identifier("id", "_id"); id != "" {
			user.Team = &models.TeamRef{ID: id, Name: tf.str("name")}
		}
	}
	return token, user, nil
}

// DecodeErrorMessage extracts the {"error": "..."} message of a failed response
func DecodeErrorMessage(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return ""
	}
	return strings.TrimSpace(gjson.GetBytes(raw, "error").String())
}
