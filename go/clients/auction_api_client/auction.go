package auction_api_client

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

type setCurrentRequest struct {
	PlayerID any `json:"playerId"`
}

type sellRequest struct {
	TeamID any     `json:"teamId"`
	Amount float64 `json:"amount"`
}

// SetCurrentPlayer puts a player on the block and returns the player as the backend
// now sees it
func (c *AuctionApiClient) SetCurrentPlayer(ctx context.Context, playerID string) (models.Player, error) {
	body, err := jsonBody(setCurrentRequest{PlayerID: wireID(playerID)})
	if err != nil {
		return models.Player{}, err
	}

	resp, err := c.Post(ctx, CurrentPlayerEndpoint, body)
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to set current player: %w", err)
	}

	player, err := ingest.NormalizePlayer(resp)
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to decode current player: %w", err)
	}
	return player, nil
}

// SellPlayer records the sale of the current player. The returned transaction is the
// zero value when the backend does not echo a usable sale record.
func (c *AuctionApiClient) SellPlayer(ctx context.Context, teamID string, amount float64) (models.Transaction, error) {
	body, err := jsonBody(sellRequest{TeamID: wireID(teamID), Amount: amount})
	if err != nil {
		return models.Transaction{}, err
	}

	resp, err := c.Post(ctx, SellEndpoint, body)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to sell player: %w", err)
	}

	txn, err := ingest.NormalizeTransaction(resp)
	if errors.Is(err, ingest.ErrInvalidRecord) {
		return models.Transaction{}, nil
	}
	return txn, err
}

// AuctionState fetches the composite auction state
func (c *AuctionApiClient) AuctionState(ctx context.Context) (models.AuctionState, error) {
	body, err := c.Get(ctx, AuctionStateEndpoint)
	if err != nil {
		return models.AuctionState{}, fmt.Errorf("failed to get auction state: %w", err)
	}

	state, err := ingest.DecodeAuctionState(body)
	if err != nil {
		return models.AuctionState{}, fmt.Errorf("failed to decode auction state: %w", err)
	}
	return state, nil
}
