package models

// Team represents an auction franchise and its budget position
type Team struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	InitialBudget   float64 `json:"initialBudget"`
	RemainingBudget float64 `json:"remainingBudget"`
	Spent           float64 `json:"spent"`
	PlayersCount    int     `json:"playersCount"`
}

// TeamRef is the short team reference carried on a user profile
type TeamRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// CloneTeams copies a team slice. A nil slice stays nil.
func CloneTeams(teams []Team) []Team {
	if teams == nil {
		return nil
	}
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}
