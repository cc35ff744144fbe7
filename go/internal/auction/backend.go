package auction

//go:generate mockgen -package=mocks -destination=mocks/mock_backend.go github.com/mcdev12/auctionfeed/go/internal/auction Backend

import (
	"context"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// Backend is the auction business-logic service. Implementations return normalized
// models only; auction_api_client.AuctionApiClient is the production one.
type Backend interface {
	UnsoldPlayers(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error)
	AuctionState(ctx context.Context) (models.AuctionState, error)
	TeamSummaries(ctx context.Context) ([]models.Team, error)
	TeamSquad(ctx context.Context, teamID string) (models.Squad, error)
	TeamAnalytics(ctx context.Context, teamID string) (models.Analytics, error)

	SetCurrentPlayer(ctx context.Context, playerID string) (models.Player, error)
	SellPlayer(ctx context.Context, teamID string, amount float64) (models.Transaction, error)
}
