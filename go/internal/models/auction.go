package models

// MaxRecentTransactions bounds the recent-transactions projection
const MaxRecentTransactions = 10

// AuctionState is the composite read model of a running auction.
// A nil CurrentPlayer means no player is on the block.
type AuctionState struct {
	CurrentPlayer      *Player       `json:"currentPlayer,omitempty"`
	TeamSummaries      []Team        `json:"teamSummaries"`
	RecentTransactions []Transaction `json:"recentTransactions"`
	HighestBuys        []Player      `json:"highestBuys"`
}

// Clone returns a deep copy of the state
func (s AuctionState) Clone() AuctionState {
	out := AuctionState{
		TeamSummaries:      CloneTeams(s.TeamSummaries),
		RecentTransactions: CloneTransactions(s.RecentTransactions),
		HighestBuys:        ClonePlayers(s.HighestBuys),
	}
	if s.CurrentPlayer != nil {
		p := s.CurrentPlayer.Clone()
		out.CurrentPlayer = &p
	}
	return out
}

// Squad is a team's roster as returned by the squad endpoint
type Squad struct {
	Name            string   `json:"name"`
	PlayersCount    int      `json:"playersCount"`
	TotalSpent      float64  `json:"totalSpent"`
	RemainingBudget float64  `json:"remainingBudget"`
	Players         []Player `json:"players"`
}

// Analytics summarizes a team's spending
type Analytics struct {
	HighestBuy       *Player            `json:"highestBuy,omitempty"`
	LowestBuy        *Player            `json:"lowestBuy,omitempty"`
	AverageSpend     float64            `json:"averageSpend"`
	RoleDistribution map[string]int     `json:"roleDistribution"`
	SpendByRole      map[string]float64 `json:"spendByRole"`
}
