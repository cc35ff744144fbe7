package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

func price(v float64) *float64 { return &v }

func sale(player, team string, amount float64) models.Transaction {
	return models.Transaction{
		Player: models.Player{Name: player},
		Team:   models.Team{Name: team},
		Amount: amount,
	}
}

func TestTicker(t *testing.T) {
	assert.Empty(t, Ticker(nil))

	got := Ticker([]models.Transaction{
		sale("Dhoni", "CSK", 6.5),
		sale("Kohli", "RCB", 15),
	})
	assert.Equal(t, "Dhoni sold to CSK for ₹6.5 Cr  •  Kohli sold to RCB for ₹15 Cr", got)
}

func TestTickerCapsAtTen(t *testing.T) {
	txns := make([]models.Transaction, 0, 12)
	for i := 0; i < 12; i++ {
		txns = append(txns, sale(fmt.Sprintf("P%d", i), "T", 1))
	}
	got := Ticker(txns)
	assert.Len(t, strings.Split(got, tickerSeparator), MaxTickerItems)
	assert.NotContains(t, got, "P10")
}

func TestCurrentPlayer(t *testing.T) {
	assert.Contains(t, CurrentPlayer(nil), "No Active Auction")

	got := CurrentPlayer(&models.Player{
		Name: "Raina", Role: models.RoleBatsman, Age: 35, BasePrice: 2,
		Runs: 5528, Fifties: 39, Hundreds: 1, StrikeRate: 136.7, Economy: 7.5,
	})
	assert.Contains(t, got, "LIVE  Raina")
	assert.Contains(t, got, "₹2 Cr")
	assert.Contains(t, got, "39/1")
	assert.Contains(t, got, "136.70")
	assert.Contains(t, got, "7.50")
}

func TestHighestBuys(t *testing.T) {
	assert.Equal(t, "No sales yet\n", HighestBuys(nil))

	players := []models.Player{
		{Name: "Unsold"},
		{Name: "A", SoldPrice: price(3)},
		{Name: "B", SoldPrice: price(9), SoldToTeam: &models.Team{Name: "MI"}},
		{Name: "C", SoldPrice: price(5)},
		{Name: "D", SoldPrice: price(1)},
		{Name: "E", SoldPrice: price(7)},
		{Name: "F", SoldPrice: price(2)},
	}
	lines := strings.Split(strings.TrimSpace(HighestBuys(players)), "\n")
	require.Len(t, lines, MaxHighestBuys)
	assert.True(t, strings.HasPrefix(lines[0], "1."))
	assert.Contains(t, lines[0], "B")
	assert.Contains(t, lines[0], "MI")
	assert.Contains(t, lines[4], "F")
	assert.NotContains(t, strings.Join(lines, "\n"), "Unsold")
}

func TestTotals(t *testing.T) {
	teams := []models.Team{
		{Name: "CSK", PlayersCount: 3, Spent: 12.5},
		{Name: "MI", PlayersCount: 2, Spent: 7.25},
	}
	assert.Equal(t, Summary{PlayersSold: 5, TotalSpent: 19.75, TeamCount: 2}, Summarize(teams))
	assert.Equal(t, "Players sold: 5  Total spent: ₹19.8 Cr  Teams: 2\n", Totals(teams))
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestRecentActivity(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	txn := sale("Dhoni", "CSK", 6.5)
	txn.Timestamp = now.Add(-5 * time.Minute)

	got := RecentActivity([]models.Transaction{txn, sale("X", "Y", 1)}, now)
	assert.Contains(t, got, "Sold to CSK")
	assert.Contains(t, got, "5 minutes ago")
	assert.Equal(t, "No transactions yet\n", RecentActivity(nil, now))
}

func TestSquad(t *testing.T) {
	got := Squad(models.Squad{
		Name: "Chennai", PlayersCount: 1, TotalSpent: 6.5, RemainingBudget: 93.5,
		Players: []models.Player{{Name: "Dhoni", Role: models.RoleWicketKeeper, SoldPrice: price(6.5), StrikeRate: 135.2}},
	})
	assert.Contains(t, got, "Players: 1  Spent: ₹6.5 Cr  Remaining: ₹93.5 Cr")
	assert.Contains(t, got, "Dhoni")
	assert.Contains(t, got, "135.2")

	assert.Contains(t, Squad(models.Squad{Name: "Empty"}), "No players yet")
}

func TestAnalytics(t *testing.T) {
	got := Analytics(models.Analytics{
		HighestBuy:       &models.Player{Name: "Dhoni", SoldPrice: price(6.5)},
		AverageSpend:     4.126,
		RoleDistribution: map[string]int{"Bowler": 1, "Batsman": 2},
		SpendByRole:      map[string]float64{"Batsman": 8, "Bowler": 0.25},
	})
	assert.Contains(t, got, "Highest buy: Dhoni ₹6.5 Cr")
	assert.Contains(t, got, "Lowest buy: -")
	assert.Contains(t, got, "Average spend: ₹4.13 Cr")
	assert.Less(t, strings.Index(got, "Batsman"), strings.Index(got, "Bowler"))
}

func TestUnsoldTable(t *testing.T) {
	assert.Equal(t, "No unsold players\n", UnsoldTable(nil))

	got := UnsoldTable([]models.Player{{ID: "7", Name: "Raina", Role: models.RoleBatsman, BasePrice: 2, Runs: 100, Wickets: 3, StrikeRate: 120.55}})
	assert.Contains(t, got, "Raina")
	assert.Contains(t, got, "100R, 3W, SR: 120.5")
}
