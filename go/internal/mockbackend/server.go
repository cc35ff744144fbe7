// Package mockbackend is an in-memory auction backend serving the REST and push
// contract the viewer consumes. It backs local development and end-to-end tests.
package mockbackend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// Broadcaster delivers an encoded push message to live viewers
type Broadcaster interface {
	Broadcast(msg []byte)
}

// Server wires the ledger, token issuer and websocket hub behind a chi router
type Server struct {
	ledger *Ledger
	tokens *Tokens
	hub    *Hub

	broadcasters []Broadcaster
}

type ctxKey struct{}

func NewServer(ledger *Ledger, tokens *Tokens, hubConfig HubConfig) *Server {
	s := &Server{ledger: ledger, tokens: tokens}
	s.hub = NewHub(hubConfig, s.Snapshot)
	s.broadcasters = []Broadcaster{s.hub}
	return s
}

// AddBroadcaster registers another push fan-out, e.g. NATS
func (s *Server) AddBroadcaster(b Broadcaster) {
	s.broadcasters = append(s.broadcasters, b)
}

// Hub returns the websocket hub; callers run Hub().Start
func (s *Server) Hub() *Hub {
	return s.hub
}

// Snapshot encodes the full auction state as a stateSnapshot message
func (s *Server) Snapshot() ([]byte, error) {
	return ingest.EncodeEvent(ingest.EventStateSnapshot, s.ledger.State())
}

// Handler builds the HTTP handler: REST under /api, websocket at /ws
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "connections": s.hub.Count()})
	})
	r.Get("/ws", s.handleWebsocket)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/players/unsold", s.handleUnsold)
			r.Get("/auction/state", s.handleState)
			r.Get("/teams/summary", s.handleTeams)
			r.Get("/teams/{teamID}/squad", s.handleSquad)
			r.Get("/teams/{teamID}/analytics", s.handleAnalytics)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(models.UserRoleManager))
				r.Post("/auction/current", s.handleSetCurrent)
				r.Post("/auction/sell", s.handleSell)
			})
		})
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	username := gjson.GetBytes(body, "username").String()
	password := gjson.GetBytes(body, "password").String()

	user, err := s.ledger.Authenticate(username, password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err)
		return
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	log.Info().Str("user", user.Username).Msg("user logged in")
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (s *Server) handleUnsold(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondJSON(w, http.StatusOK, s.ledger.Unsold(models.PlayerFilter{
		Search: q.Get("search"),
		Role:   q.Get("role"),
	}))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.State())
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.Teams())
}

func (s *Server) handleSquad(w http.ResponseWriter, r *http.Request) {
	squad, err := s.ledger.Squad(chi.URLParam(r, "teamID"))
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, squad)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.ledger.Analytics(chi.URLParam(r, "teamID"))
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	// playerId may arrive as a string or a number
	playerID := strings.TrimSpace(gjson.GetBytes(body, "playerId").String())

	player, err := s.ledger.SetCurrent(playerID)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	s.publish(ingest.EventCurrentPlayerUpdated, player)
	respondJSON(w, http.StatusOK, player)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	teamID := strings.TrimSpace(gjson.GetBytes(body, "teamId").String())
	amount := gjson.GetBytes(body, "amount").Float()

	txn, err := s.ledger.Sell(teamID, amount)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}

	s.publish(ingest.EventPlayerSold, map[string]any{
		"player":    txn.Player,
		"team":      txn.Team,
		"amount":    txn.Amount,
		"timestamp": txn.Timestamp,
	})
	respondJSON(w, http.StatusOK, txn)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		// browsers cannot set headers on websocket upgrades
		token = r.URL.Query().Get("token")
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err)
		return
	}

	if err := s.hub.Upgrade(w, r, claims.Subject); err != nil {
		log.Error().Err(err).Str("user_id", claims.Subject).Msg("failed to upgrade websocket connection")
	}
}

func (s *Server) publish(kind ingest.EventKind, payload any) {
	msg, err := ingest.EncodeEvent(kind, payload)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("failed to encode push event")
		return
	}
	for _, b := range s.broadcasters {
		b.Broadcast(msg)
	}
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.tokens.Verify(bearerToken(r))
		if err != nil {
			respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

func requireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := r.Context().Value(ctxKey{}).(*Claims)
			if claims == nil || claims.Role != string(role) {
				respondError(w, http.StatusForbidden, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Msg("request handled")
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || !gjson.ValidBytes(body) {
		respondError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return nil, false
	}
	return body, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrPlayerNotFound), errors.Is(err, ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPlayerSold), errors.Is(err, ErrNoCurrentPlayer), errors.Is(err, ErrInsufficientBudget):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
