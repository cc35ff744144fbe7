package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/auth"
	"github.com/mcdev12/auctionfeed/go/internal/config"
)

func setupLogging(cfg config.Config) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(cfg.Level())
}

// setupSessionStore opens the configured session store. The returned func releases
// any connection it holds.
func setupSessionStore(cfg config.Config) (auth.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case config.SessionRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		store, err := auth.NewRedisStore(&auth.RedisConfig{RedisClient: client})
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Info().Str("addr", opts.Addr).Msg("using redis session store")
		return store, func() { client.Close() }, nil

	default:
		path := cfg.SessionFile
		if path == "" {
			path = auth.DefaultSessionPath()
		}
		log.Debug().Str("path", path).Msg("using file session store")
		return auth.NewFileStore(path), func() {}, nil
	}
}
