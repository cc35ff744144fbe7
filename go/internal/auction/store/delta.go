package store

import (
	"time"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// Delta is an incremental change to the auction projections
type Delta interface {
	isDelta()
}

// CurrentPlayerUpdated replaces the player on the block
type CurrentPlayerUpdated struct {
	Player models.Player
}

// PlayerSold records a completed sale. A zero Timestamp means the arrival time.
type PlayerSold struct {
	Player    models.Player
	Team      models.Team
	Amount    float64
	Timestamp time.Time
}

func (CurrentPlayerUpdated) isDelta() {}
func (PlayerSold) isDelta()           {}

// Tick is the result of one complete poll cycle
type Tick struct {
	State  models.AuctionState
	Teams  []models.Team
	Unsold []models.Player
}
