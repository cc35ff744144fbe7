package mockbackend

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerSold         = errors.New("player already sold")
	ErrNoCurrentPlayer    = errors.New("no player is up for auction")
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrForbidden          = errors.New("forbidden")
)
