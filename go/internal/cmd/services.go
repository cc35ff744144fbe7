package main

import (
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/clients/auction_api_client"
	"github.com/mcdev12/auctionfeed/go/internal/auction/poll"
	"github.com/mcdev12/auctionfeed/go/internal/auction/push"
	"github.com/mcdev12/auctionfeed/go/internal/auction/session"
	"github.com/mcdev12/auctionfeed/go/internal/auth"
	"github.com/mcdev12/auctionfeed/go/internal/config"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

type Services struct {
	Config config.Config
	Clock  clockwork.Clock
	Client *auction_api_client.AuctionApiClient
	Auth   *auth.App

	closeStore func()
}

func setupServices(cfg config.Config) (*Services, error) {
	// Wire up dependency chain
	// Session store → Auth app → API client (token source) → per-login sessions
	store, closeStore, err := setupSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &Services{
		Config:     cfg,
		Clock:      clockwork.NewRealClock(),
		closeStore: closeStore,
	}
	s.Client = auction_api_client.NewAuctionApiClient(cfg.APIURL, s.token).WithTimeout(cfg.RequestTimeout)
	s.Auth = auth.NewApp(s.Client, store, s.Clock)
	return s, nil
}

func (s *Services) token() string {
	return s.Auth.Token()
}

// NewSession builds the live view for one login with the configured push transport
func (s *Services) NewSession(user models.User) *session.Session {
	return session.New(session.Config{
		Backend: s.Client,
		Channel: s.newChannel(),
		Clock:   s.Clock,
		Poll: poll.Config{
			Interval: s.Config.PollInterval,
			Disabled: s.Config.DisablePolling,
		},
		User: user,
	})
}

func (s *Services) newChannel() push.Channel {
	switch s.Config.PushTransport {
	case config.TransportWebsocket:
		url := s.Config.WebsocketURL()
		log.Debug().Str("url", url).Msg("using websocket push channel")
		return push.NewWebsocketChannel(push.DefaultWebsocketConfig(url, s.token))
	case config.TransportNATS:
		natsConfig := push.DefaultNATSConfig()
		natsConfig.URL = s.Config.NATSURL
		natsConfig.Prefix = s.Config.NATSPrefix
		log.Debug().Str("url", natsConfig.URL).Msg("using NATS push channel")
		return push.NewNATSChannel(natsConfig)
	default:
		return nil
	}
}

func (s *Services) Close() {
	s.closeStore()
}
