package auth

import (
	"context"
	"time"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// View is the screen a user lands on after login
type View string

const (
	ViewLogin   View = "login"
	ViewManager View = "manager"
	ViewTeam    View = "team"
)

// Session is the persisted client state of one login
type Session struct {
	Token   string      `json:"token" yaml:"token"`
	User    models.User `json:"user" yaml:"user"`
	SavedAt time.Time   `json:"saved_at" yaml:"saved_at"`
}

// SessionStore persists the session between runs
type SessionStore interface {
	// Load returns ErrNoSession when nothing is stored
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, session Session) error
	Clear(ctx context.Context) error
}

// Authenticator exchanges credentials for a token and user profile
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, models.User, error)
}
