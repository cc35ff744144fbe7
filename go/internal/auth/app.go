package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// App handles login state. The token is written only by Login, Restore and Logout
// and read through Token.
type App struct {
	auth  Authenticator
	store SessionStore
	clock clockwork.Clock

	mu      sync.RWMutex
	session *Session
}

// NewApp creates a new auth App
func NewApp(auth Authenticator, store SessionStore, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		auth:  auth,
		store: store,
		clock: clock,
	}
}

// Login authenticates and persists the session
func (a *App) Login(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrMissingCredentials
	}

	token, user, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return models.User{}, fmt.Errorf("login failed: %w", err)
	}

	session := Session{Token: token, User: user, SavedAt: a.clock.Now().UTC()}
	if err := a.store.Save(ctx, session); err != nil {
		// The login itself worked; only persistence is lost.
		log.Warn().Err(err).Str("user", user.Username).Msg("failed to persist session")
	}

	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()

	log.Info().Str("user", user.Username).Str("role", string(user.Role)).Msg("logged in")
	return user, nil
}

// Restore reloads a persisted session. An expired token is cleared and reported as
// ErrSessionExpired.
func (a *App) Restore(ctx context.Context) (models.User, error) {
	session, err := a.store.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	if session.Token == "" || session.User.ID == "" {
		_ = a.store.Clear(ctx)
		return models.User{}, ErrNoSession
	}

	if a.expired(session.Token) {
		if err := a.store.Clear(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to clear expired session")
		}
		return models.User{}, ErrSessionExpired
	}

	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()

	log.Info().Str("user", session.User.Username).Msg("session restored")
	return session.User, nil
}

// Logout forgets the session in memory and in the store
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()

	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token returns the current bearer token, empty when logged out
func (a *App) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return ""
	}
	return a.session.Token
}

// User returns the logged in user
func (a *App) User() (models.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return models.User{}, false
	}
	return a.session.User, true
}

// expired reads the exp claim without verifying the signature; the backend remains
// the authority on validity. Tokens that are not JWTs or carry no exp never expire.
func (a *App) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !a.clock.Now().Before(exp.Time)
}

// Route picks the landing view for a user
func Route(user models.User) View {
	if user.Role == models.UserRoleManager {
		return ViewManager
	}
	return ViewTeam
}

// IsNoSession reports whether err means there is nothing to restore
func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrSessionExpired)
}
