package auction_api_client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// UnsoldPlayers lists unsold players matching the filter, normalized and deduplicated
func (c *AuctionApiClient) UnsoldPlayers(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	params := url.Values{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		params.Set(SearchParam, search)
	}
	if role := strings.TrimSpace(filter.Role); role != "" && !strings.EqualFold(role, models.RoleAll) {
		params.Set(RoleParam, role)
	}

	endpoint := UnsoldPlayersEndpoint
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get unsold players: %w", err)
	}

	players, stats, err := ingest.NormalizePlayers(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode unsold players: %w", err)
	}
	if stats.Invalid > 0 || stats.Duplicates > 0 {
		log.Debug().
			Int("total", stats.Total).
			Int("invalid", stats.Invalid).
			Int("duplicates", stats.Duplicates).
			Msg("dropped unsold player records")
	}
	return players, nil
}
