package auth

import "errors"

var (
	// ErrMissingCredentials is returned before any backend call when a field is blank
	ErrMissingCredentials = errors.New("please enter username and password")

	// ErrNoSession is returned when there is no persisted session to restore
	ErrNoSession = errors.New("no session")

	// ErrSessionExpired is returned when the persisted token is past its exp claim
	ErrSessionExpired = errors.New("session expired")
)
