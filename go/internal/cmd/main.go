package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/auth"
	"github.com/mcdev12/auctionfeed/go/internal/config"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	services, err := setupServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up services")
	}
	defer services.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("api_url", cfg.APIURL).
		Str("push", string(cfg.PushTransport)).
		Dur("poll_interval", cfg.PollInterval).
		Msg("starting auction viewer")

	v := newViewer(services, os.Stdout)
	defer v.endSession()

	if user, err := services.Auth.Restore(ctx); err == nil {
		v.beginSession(ctx, user)
	} else if !auth.IsNoSession(err) {
		log.Warn().Err(err).Msg("failed to restore session")
	}

	if err := v.run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("viewer stopped")
	}
	log.Info().Msg("auction viewer shutdown complete")
}
