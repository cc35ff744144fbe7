// Package config reads the viewer and mock backend settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// PushTransport selects the live event channel
type PushTransport string

const (
	TransportWebsocket PushTransport = "websocket"
	TransportNATS      PushTransport = "nats"
	TransportNone      PushTransport = "none"
)

// SessionBackend selects where the login session is persisted
type SessionBackend string

const (
	SessionFile  SessionBackend = "file"
	SessionRedis SessionBackend = "redis"
)

var (
	ErrInvalidTransport = errors.New("invalid push transport")
	ErrInvalidStore     = errors.New("invalid session store")
)

// Config is the viewer configuration
type Config struct {
	APIURL         string         `env:"AUCTION_API_URL"         envDefault:"http://localhost:4000/api"`
	PushURL        string         `env:"AUCTION_PUSH_URL"`
	PushTransport  PushTransport  `env:"AUCTION_PUSH_TRANSPORT"  envDefault:"websocket"`
	NATSURL        string         `env:"NATS_URL"                envDefault:"nats://localhost:4222"`
	NATSPrefix     string         `env:"AUCTION_NATS_PREFIX"     envDefault:"auction"`
	PollInterval   time.Duration  `env:"AUCTION_POLL_INTERVAL"   envDefault:"3s"`
	DisablePolling bool           `env:"AUCTION_DISABLE_POLLING"`
	SessionStore   SessionBackend `env:"AUCTION_SESSION_STORE"   envDefault:"file"`
	SessionFile    string         `env:"AUCTION_SESSION_FILE"`
	RedisURL       string         `env:"REDIS_URL"               envDefault:"redis://localhost:6379/0"`
	RequestTimeout time.Duration  `env:"AUCTION_REQUEST_TIMEOUT" envDefault:"10s"`
	LogLevel       string         `env:"LOG_LEVEL"               envDefault:"info"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerations and intervals
func (c *Config) Validate() error {
	switch c.PushTransport {
	case TransportWebsocket, TransportNATS, TransportNone:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransport, c.PushTransport)
	}
	switch c.SessionStore {
	case SessionFile, SessionRedis:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStore, c.SessionStore)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if _, err := url.Parse(c.APIURL); err != nil {
		return fmt.Errorf("invalid AUCTION_API_URL: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// WebsocketURL is the push endpoint. Without AUCTION_PUSH_URL it is derived from the
// API URL: http becomes ws, https becomes wss, and the path becomes /ws.
func (c *Config) WebsocketURL() string {
	if c.PushURL != "" {
		return c.PushURL
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = ""
	return u.String()
}

// Level is the parsed log level, info when unparsable
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// MockBackend configures the in-memory fixture server
type MockBackend struct {
	Addr      string        `env:"MOCK_BACKEND_ADDR"       envDefault:":4000"`
	JWTSecret string        `env:"MOCK_BACKEND_JWT_SECRET" envDefault:"dev-secret"`
	TokenTTL  time.Duration `env:"MOCK_BACKEND_TOKEN_TTL"  envDefault:"24h"`
	// NATSURL enables NATS fan-out of push events when set
	NATSURL    string `env:"MOCK_BACKEND_NATS_URL"`
	NATSPrefix string `env:"AUCTION_NATS_PREFIX" envDefault:"auction"`
	LogLevel   string `env:"LOG_LEVEL"           envDefault:"info"`
}

// LoadMockBackend parses the mock backend environment
func LoadMockBackend() (MockBackend, error) {
	var cfg MockBackend
	if err := env.Parse(&cfg); err != nil {
		return MockBackend{}, fmt.Errorf("failed to parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return MockBackend{}, errors.New("MOCK_BACKEND_JWT_SECRET cannot be empty")
	}
	return cfg, nil
}
