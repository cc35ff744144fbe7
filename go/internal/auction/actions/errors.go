package actions

import "errors"

var (
	ErrTeamRequired  = errors.New("please select a team")
	ErrInvalidAmount = errors.New("please enter a positive amount")
	ErrNoPlayer      = errors.New("no player selected")
)
