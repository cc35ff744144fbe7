package auction_api_client

import (
	"context"
	"fmt"

	"github.com/mcdev12/auctionfeed/go/internal/ingest"
	"github.com/mcdev12/auctionfeed/go/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and the user profile
func (c *AuctionApiClient) Login(ctx context.Context, username, password string) (string, models.User, error) {
	body, err := jsonBody(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", models.User{}, err
	}

	resp, err := c.Post(ctx, LoginEndpoint, body)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to login: %w", err)
	}

	token, user, err := ingest.DecodeLogin(resp)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	return token, user, nil
}
