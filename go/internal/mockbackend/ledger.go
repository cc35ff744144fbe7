package mockbackend

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

const highestBuysLimit = 5

// Ledger is the in-memory auction the mock backend serves. Sales are serialized by its
// mutex, which is the guarantee a real backend gives the viewer.
type Ledger struct {
	clock clockwork.Clock

	mu           sync.RWMutex
	accounts     map[string]Account
	teamOrder    []string
	teams        map[string]*models.Team
	playerOrder  []string
	players      map[string]*models.Player
	current      string
	transactions []models.Transaction // newest first
}

func NewLedger(fixtures Fixtures, clock clockwork.Clock) *Ledger {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	l := &Ledger{
		clock:    clock,
		accounts: make(map[string]Account, len(fixtures.Accounts)),
		teams:    make(map[string]*models.Team, len(fixtures.Teams)),
		players:  make(map[string]*models.Player, len(fixtures.Players)),
	}
	for name, acct := range fixtures.Accounts {
		l.accounts[name] = acct
	}
	for _, t := range fixtures.Teams {
		l.teamOrder = append(l.teamOrder, t.ID)
		l.teams[t.ID] = &t
	}
	for _, p := range fixtures.Players {
		p := p.Clone()
		l.playerOrder = append(l.playerOrder, p.ID)
		l.players[p.ID] = &p
	}
	return l
}

// Authenticate checks a seeded login
func (l *Ledger) Authenticate(username, password string) (models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[strings.ToLower(strings.TrimSpace(username))]
	if !ok || acct.Password != password {
		return models.User{}, ErrInvalidCredentials
	}
	return acct.User, nil
}

// Unsold lists unsold players whose name contains search (case-insensitive) and whose
// role matches. An empty or "all" role matches everything.
func (l *Ledger) Unsold(filter models.PlayerFilter) []models.Player {
	l.mu.RLock()
	defer l.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	role := strings.TrimSpace(filter.Role)
	if strings.EqualFold(role, models.RoleAll) {
		role = ""
	}

	out := []models.Player{}
	for _, id := range l.playerOrder {
		p := l.players[id]
		if p.Status != models.PlayerStatusUnsold {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if role != "" && !strings.EqualFold(string(p.Role), role) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// SetCurrent puts an unsold player on the block
func (l *Ledger) SetCurrent(playerID string) (models.Player, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players[playerID]
	if !ok {
		return models.Player{}, ErrPlayerNotFound
	}
	if p.Status == models.PlayerStatusSold {
		return models.Player{}, ErrPlayerSold
	}
	l.current = playerID
	return p.Clone(), nil
}

// Sell closes the current auction in favour of teamID
func (l *Ledger) Sell(teamID string, amount float64) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}
	if l.current == "" {
		return models.Transaction{}, ErrNoCurrentPlayer
	}
	team, ok := l.teams[teamID]
	if !ok {
		return models.Transaction{}, ErrTeamNotFound
	}
	if amount > team.RemainingBudget {
		return models.Transaction{}, ErrInsufficientBudget
	}

	player := l.players[l.current]
	team.RemainingBudget -= amount
	team.Spent = team.InitialBudget - team.RemainingBudget
	team.PlayersCount++

	price, tid := amount, team.ID
	player.Status = models.PlayerStatusSold
	player.SoldPrice = &price
	player.SoldToTeamID = &tid
	snapshot := *team
	player.SoldToTeam = &snapshot

	txn := models.Transaction{
		ID:        uuid.New().String(),
		PlayerID:  player.ID,
		Player:    player.Clone(),
		TeamID:    team.ID,
		Team:      *team,
		Amount:    amount,
		Timestamp: l.clock.Now().UTC(),
	}
	l.transactions = append([]models.Transaction{txn}, l.transactions...)
	l.current = ""
	return txn, nil
}

// State builds the composite auction read model
func (l *Ledger) State() models.AuctionState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state := models.AuctionState{
		TeamSummaries:      l.teamsLocked(),
		RecentTransactions: models.CloneTransactions(l.transactions),
		HighestBuys:        l.highestBuysLocked(),
	}
	if len(state.RecentTransactions) > models.MaxRecentTransactions {
		state.RecentTransactions = state.RecentTransactions[:models.MaxRecentTransactions]
	}
	if state.RecentTransactions == nil {
		state.RecentTransactions = []models.Transaction{}
	}
	if l.current != "" {
		p := l.players[l.current].Clone()
		state.CurrentPlayer = &p
	}
	return state
}

// Teams returns every team in seed order
func (l *Ledger) Teams() []models.Team {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.teamsLocked()
}

// Squad returns the players a team has bought, in purchase order
func (l *Ledger) Squad(teamID string) (models.Squad, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	team, ok := l.teams[teamID]
	if !ok {
		return models.Squad{}, ErrTeamNotFound
	}
	return models.Squad{
		Name:            team.Name,
		PlayersCount:    team.PlayersCount,
		TotalSpent:      team.Spent,
		RemainingBudget: team.RemainingBudget,
		Players:         l.boughtLocked(teamID),
	}, nil
}

// Analytics summarizes a team's purchases
func (l *Ledger) Analytics(teamID string) (models.Analytics, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.teams[teamID]; !ok {
		return models.Analytics{}, ErrTeamNotFound
	}

	a := models.Analytics{
		RoleDistribution: map[string]int{},
		SpendByRole:      map[string]float64{},
	}
	bought := l.boughtLocked(teamID)
	var total float64
	for i := range bought {
		p := &bought[i]
		total += *p.SoldPrice
		a.RoleDistribution[string(p.Role)]++
		a.SpendByRole[string(p.Role)] += *p.SoldPrice
		if a.HighestBuy == nil || *p.SoldPrice > *a.HighestBuy.SoldPrice {
			a.HighestBuy = p
		}
		if a.LowestBuy == nil || *p.SoldPrice < *a.LowestBuy.SoldPrice {
			a.LowestBuy = p
		}
	}
	if len(bought) > 0 {
		a.AverageSpend = total / float64(len(bought))
	}
	return a, nil
}

func (l *Ledger) teamsLocked() []models.Team {
	out := make([]models.Team, 0, len(l.teamOrder))
	for _, id := range l.teamOrder {
		out = append(out, *l.teams[id])
	}
	return out
}

func (l *Ledger) boughtLocked(teamID string) []models.Player {
	out := []models.Player{}
	// transactions are newest first
	for i := len(l.transactions) - 1; i >= 0; i-- {
		if t := l.transactions[i]; t.TeamID == teamID {
			out = append(out, l.players[t.PlayerID].Clone())
		}
	}
	return out
}

func (l *Ledger) highestBuysLocked() []models.Player {
	sold := []models.Player{}
	for _, id := range l.playerOrder {
		if p := l.players[id]; p.IsSold() {
			sold = append(sold, p.Clone())
		}
	}
	sort.SliceStable(sold, func(i, j int) bool {
		return *sold[i].SoldPrice > *sold[j].SoldPrice
	})
	if len(sold) > highestBuysLimit {
		sold = sold[:highestBuysLimit]
	}
	return sold
}
