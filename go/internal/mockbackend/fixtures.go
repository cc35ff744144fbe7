package mockbackend

import "github.com/mcdev12/auctionfeed/go/internal/models"

const (
	// InitialBudget of every seeded team, in crore
	InitialBudget = 100.0

	ManagerUsername = "manager"
	ManagerPassword = "manager123"
	TeamPassword    = "team123"
)

// Account is a seeded login
type Account struct {
	Password string
	User     models.User
}

// Fixtures is the initial content of a Ledger
type Fixtures struct {
	Teams    []models.Team
	Players  []models.Player
	Accounts map[string]Account
}

var seedTeams = []struct{ id, name string }{
	{"csk", "Chennai Super Kings"},
	{"mi", "Mumbai Indians"},
	{"rcb", "Royal Challengers Bengaluru"},
	{"kkr", "Kolkata Knight Riders"},
	{"dc", "Delhi Capitals"},
	{"srh", "Sunrisers Hyderabad"},
	{"pbks", "Punjab Kings"},
	{"rr", "Rajasthan Royals"},
}

// DefaultFixtures seeds eight franchises, one manager, one login per franchise and a
// small player pool
func DefaultFixtures() Fixtures {
	f := Fixtures{Accounts: map[string]Account{
		ManagerUsername: {
			Password: ManagerPassword,
			User:     models.User{ID: "user-manager", Username: ManagerUsername, Role: models.UserRoleManager},
		},
	}}

	for _, t := range seedTeams {
		f.Teams = append(f.Teams, models.Team{
			ID:              t.id,
			Name:            t.name,
			InitialBudget:   InitialBudget,
			RemainingBudget: InitialBudget,
		})
		f.Accounts[t.id] = Account{
			Password: TeamPassword,
			User: models.User{
				ID:       "user-" + t.id,
				Username: t.id,
				Role:     models.UserRoleTeam,
				Team:     &models.TeamRef{ID: t.id, Name: t.name},
			},
		}
	}

	f.Players = []models.Player{
		{ID: "1", Name: "Suresh Raina", Age: 37, Role: models.RoleBatsman, Matches: 205, Runs: 5528, Fifties: 39, Hundreds: 1, StrikeRate: 136.7, BasePrice: 2},
		{ID: "2", Name: "Jasprit Bumrah", Age: 30, Role: models.RoleBowler, Matches: 133, Runs: 69, Wickets: 165, StrikeRate: 86.2, Economy: 7.3, BasePrice: 2},
		{ID: "3", Name: "Ravindra Jadeja", Age: 35, Role: models.RoleAllRounder, Matches: 226, Runs: 2692, Fifties: 2, Wickets: 152, StrikeRate: 129.3, Economy: 7.6, BasePrice: 2},
		{ID: "4", Name: "Rishabh Pant", Age: 26, Role: models.RoleWicketKeeper, Matches: 111, Runs: 3284, Fifties: 18, Hundreds: 1, StrikeRate: 148.9, BasePrice: 2},
		{ID: "5", Name: "Virat Kohli", Age: 35, Role: models.RoleBatsman, Matches: 252, Runs: 8004, Fifties: 55, Hundreds: 8, StrikeRate: 131.9, BasePrice: 2},
		{ID: "6", Name: "Rashid Khan", Age: 25, Role: models.RoleBowler, Matches: 121, Runs: 545, Wickets: 149, StrikeRate: 160.1, Economy: 6.8, BasePrice: 2},
		{ID: "7", Name: "Hardik Pandya", Age: 30, Role: models.RoleAllRounder, Matches: 137, Runs: 2525, Fifties: 10, Wickets: 64, StrikeRate: 145.6, Economy: 9.0, BasePrice: 1.5},
		{ID: "8", Name: "Sanju Samson", Age: 29, Role: models.RoleWicketKeeper, Matches: 167, Runs: 4419, Fifties: 25, Hundreds: 3, StrikeRate: 139.0, BasePrice: 1.5},
		{ID: "9", Name: "Shubman Gill", Age: 24, Role: models.RoleBatsman, Matches: 103, Runs: 3216, Fifties: 20, Hundreds: 4, StrikeRate: 135.7, BasePrice: 1.5},
		{ID: "10", Name: "Yuzvendra Chahal", Age: 34, Role: models.RoleBowler, Matches: 160, Runs: 37, Wickets: 205, StrikeRate: 50.0, Economy: 7.8, BasePrice: 1},
		{ID: "11", Name: "Axar Patel", Age: 30, Role: models.RoleAllRounder, Matches: 150, Runs: 1653, Fifties: 1, Wickets: 123, StrikeRate: 130.9, Economy: 7.3, BasePrice: 1},
		{ID: "12", Name: "Ishan Kishan", Age: 26, Role: models.RoleWicketKeeper, Matches: 105, Runs: 2644, Fifties: 16, Hundreds: 1, StrikeRate: 135.9, BasePrice: 1},
	}
	for i := range f.Players {
		f.Players[i].Status = models.PlayerStatusUnsold
	}
	return f
}
