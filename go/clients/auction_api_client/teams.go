package auction_api_client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// TeamSummaries fetches the budget summary of every team
func (c *AuctionApiClient) TeamSummaries(ctx context.Context) ([]models.Team, error) {
	body, err := c.Get(ctx, TeamsSummaryEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get team summaries: %w", err)
	}

	teams, _, err := ingest.DecodeTeams(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode team summaries: %w", err)
	}
	return teams, nil
}

func (c *AuctionApiClient) TeamSquad(ctx context.Context, teamID string) (models.Squad, error) {
	body, err := c.Get(ctx, fmt.Sprintf(TeamSquadEndpoint, url.PathEscape(teamID)))
	if err != nil {
		return models.Squad{}, fmt.Errorf("failed to get squad for team %s: %w", teamID, err)
	}

	squad, err := ingest.DecodeSquad(body)
	if err != nil {
		return models.Squad{}, fmt.Errorf("failed to decode squad: %w", err)
	}
	return squad, nil
}

func (c *AuctionApiClient) TeamAnalytics(ctx context.Context, teamID string) (models.Analytics, error) {
	body, err := c.Get(ctx, fmt.Sprintf(TeamAnalyticsEndpoint, url.PathEscape(teamID)))
	if err != nil {
		return models.Analytics{}, fmt.Errorf("failed to get analytics for team %s: %w", teamID, err)
	}

	analytics, err := ingest.DecodeAnalytics(body)
	if err != nil {
		return models.Analytics{}, fmt.Errorf("failed to decode analytics: %w", err)
	}
	return analytics, nil
}
