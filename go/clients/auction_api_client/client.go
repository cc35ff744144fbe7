package auction_api_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mcdev12/auctionfeed/go/clients"
	"github.com/mcdev12/auctionfeed/go/internal/auction"
)

// AuctionApiClient talks to the auction backend's REST API. Every response goes
// through the ingest package before it leaves this client.
type AuctionApiClient struct {
	*clients.BaseClient
}

func NewAuctionApiClient(baseURL string, token clients.TokenSource) *AuctionApiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &AuctionApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader("Accept", "application/json")
	client.SetTokenSource(token)

	return client
}

// WithTimeout sets the per request timeout and returns the client
func (c *AuctionApiClient) WithTimeout(timeout time.Duration) *AuctionApiClient {
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

func jsonBody(v any) (*bytes.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(b), nil
}

// wireID sends integer-looking ids as JSON numbers, the form the backend issued them in
func wireID(id string) any {
	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		return json.Number(id)
	}
	return id
}

var _ auction.Backend = (*AuctionApiClient)(nil)
