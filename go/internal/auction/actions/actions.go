package actions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/clients"
	"github.com/mcdev12/auctionfeed/go/internal/auction"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// NoticeKind tells the presentation how to style a Notice
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the user-visible outcome of a write action
type Notice struct {
	Kind NoticeKind
	Text string
}

func success(text string) Notice { return Notice{Kind: NoticeSuccess, Text: text} }

func failure(text string) Notice { return Notice{Kind: NoticeError, Text: text} }

// Refresher is the poll loop surface write actions need
type Refresher interface {
	SkipNext()
	RefreshNow(ctx context.Context) error
}

// TeamLookup resolves a team name for the sale notice
type TeamLookup func(teamID string) (models.Team, bool)

// SaleInput is the manager's sale form as entered
type SaleInput struct {
	TeamID string
	Amount string
}

// Actions performs manager writes. Each write asks the poll loop to skip its next
// tick, calls the backend, and on success forces a full refresh. A failed write
// mutates nothing.
type Actions struct {
	backend auction.Backend
	poll    Refresher
	teams   TeamLookup
}

func New(backend auction.Backend, poll Refresher, teams TeamLookup) *Actions {
	return &Actions{backend: backend, poll: poll, teams: teams}
}

// AdvanceAuction puts a player on the block
func (a *Actions) AdvanceAuction(ctx context.Context, playerID string) (Notice, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return failure("No player selected"), ErrNoPlayer
	}

	a.poll.SkipNext()
	if _, err := a.backend.SetCurrentPlayer(ctx, playerID); err != nil {
		log.Error().Err(err).Str("player_id", playerID).Msg("failed to put player into auction")
		return failure(backendMessage(err, "Failed to put player into auction")), err
	}

	a.refresh(ctx)
	return success("Player put into auction!"), nil
}

// RecordSale sells the current player. Input is validated before any backend call.
func (a *Actions) RecordSale(ctx context.Context, in SaleInput) (Notice, error) {
	teamID, amount, err := ValidateSale(in)
	if err != nil {
		return failure("Please select a team and enter amount"), err
	}

	a.poll.SkipNext()
	if _, err := a.backend.SellPlayer(ctx, teamID, amount); err != nil {
		log.Error().Err(err).Str("team_id", teamID).Float64("amount", amount).Msg("failed to sell player")
		return failure(backendMessage(err, "Failed to sell player")), err
	}

	teamName := teamID
	if a.teams != nil {
		if team, ok := a.teams(teamID); ok && team.Name != "" {
			teamName = team.Name
		}
	}

	a.refresh(ctx)
	return success(fmt.Sprintf("Player sold to %s for ₹%s Cr!", teamName, strings.TrimSpace(in.Amount))), nil
}

// ValidateSale checks the sale form: a team must be chosen and the amount must be a
// positive finite number
func ValidateSale(in SaleInput) (string, float64, error) {
	teamID := strings.TrimSpace(in.TeamID)
	if teamID == "" {
		return "", 0, ErrTeamRequired
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(in.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return "", 0, ErrInvalidAmount
	}
	return teamID, amount, nil
}

func (a *Actions) refresh(ctx context.Context) {
	if err := a.poll.RefreshNow(ctx); err != nil {
		log.Warn().Err(err).Msg("refresh after write failed")
	}
}

// backendMessage prefers the backend's own error text
func backendMessage(err error, fallback string) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
