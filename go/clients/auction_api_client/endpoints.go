package auction_api_client

const (
	// Default base URL of a locally running backend
	DefaultBaseURL = "http://localhost:4000/api"

	// API Endpoints
	LoginEndpoint         = "/auth/login"
	UnsoldPlayersEndpoint = "/players/unsold"
	CurrentPlayerEndpoint = "/auction/current"
	SellEndpoint          = "/auction/sell"
	AuctionStateEndpoint  = "/auction/state"
	TeamsSummaryEndpoint  = "/teams/summary"
	TeamSquadEndpoint     = "/teams/%s/squad"
	TeamAnalyticsEndpoint = "/teams/%s/analytics"

	// Query parameters
	SearchParam = "search"
	RoleParam   = "role"
)
