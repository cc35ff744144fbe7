package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/config"
	"github.com/mcdev12/auctionfeed/go/internal/mockbackend"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.LoadMockBackend()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	clock := clockwork.NewRealClock()
	server := mockbackend.NewServer(
		mockbackend.NewLedger(mockbackend.DefaultFixtures(), clock),
		mockbackend.NewTokens(cfg.JWTSecret, cfg.TokenTTL, clock),
		mockbackend.DefaultHubConfig(),
	)

	if cfg.NATSURL != "" {
		fanout, err := mockbackend.NewNATSFanout(cfg.NATSURL, cfg.NATSPrefix, server.Snapshot)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start NATS fan-out")
		}
		defer fanout.Close()
		server.AddBroadcaster(fanout)
	}

	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     server.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go server.Hub().Start(ctx)

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("mock auction backend listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	cancel()

	log.Info().Msg("mock auction backend shutdown complete")
}
