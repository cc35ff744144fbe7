package models

// PlayerRole is the cricketing role of a player. Unknown roles are kept verbatim.
type PlayerRole string

const (
	RoleBatsman      PlayerRole = "Batsman"
	RoleBowler       PlayerRole = "Bowler"
	RoleAllRounder   PlayerRole = "All-Rounder"
	RoleWicketKeeper PlayerRole = "Wicket-Keeper"
)

// Known reports whether the role is one of the four standard roles
func (r PlayerRole) Known() bool {
	switch r {
	case RoleBatsman, RoleBowler, RoleAllRounder, RoleWicketKeeper:
		return true
	}
	return false
}

// PlayerStatus defines the auction status of a player.
type PlayerStatus string

const (
	PlayerStatusUnsold PlayerStatus = "unsold"
	PlayerStatusSold   PlayerStatus = "sold"
)

// Player represents a player in the auction pool
type Player struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Age  int        `json:"age"`
	Role PlayerRole `json:"role"`

	// Career stats
	Matches    int     `json:"matches"`
	Runs       int     `json:"runs"`
	Fifties    int     `json:"fifties"`
	Hundreds   int     `json:"hundreds"`
	StrikeRate float64 `json:"strikeRate"`
	Wickets    int     `json:"wickets"`
	Economy    float64 `json:"economy"`

	// Auction attributes. SoldPrice and SoldToTeamID are set together or not at all.
	BasePrice    float64      `json:"basePrice"`
	Status       PlayerStatus `json:"status"`
	SoldPrice    *float64     `json:"soldPrice,omitempty"`
	SoldToTeamID *string      `json:"soldToTeamId,omitempty"`
	SoldToTeam   *Team        `json:"soldToTeam,omitempty"`
}

// IsSold reports whether the player carries a complete sale record
func (p *Player) IsSold() bool {
	return p.Status == PlayerStatusSold && p.SoldPrice != nil && p.SoldToTeamID != nil
}

// Clone returns a deep copy of the player
func (p Player) Clone() Player {
	if p.SoldPrice != nil {
		v := *p.SoldPrice
		p.SoldPrice = &v
	}
	if p.SoldToTeamID != nil {
		v := *p.SoldToTeamID
		p.SoldToTeamID = &v
	}
	if p.SoldToTeam != nil {
		t := *p.SoldToTeam
		p.SoldToTeam = &t
	}
	return p
}

// ClonePlayers deep copies a player slice. A nil slice stays nil.
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p.Clone()
	}
	return out
}

// RoleAll selects every role in a PlayerFilter
const RoleAll = "all"

// PlayerFilter narrows the unsold listing. An empty or "all" role matches every role.
type PlayerFilter struct {
	Search string
	Role   string
}
