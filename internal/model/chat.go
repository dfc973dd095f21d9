package model

// ChatRequest represents one conversational turn from the client.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse represents the assistant's reply for one turn.
type ChatResponse struct {
	SessionID string          `json:"session_id,omitempty"`
	Reply     string          `json:"reply"`
	Listings  []ScoredListing `json:"listings,omitempty"`
	Stage     Stage           `json:"stage"`
	Context   *SearchContext  `json:"context,omitempty"`
	Took      int64           `json:"took_ms"`
}

// CatalogFilters is the coarse narrowing passed to the catalog provider.
// Fine-grained ranking is always redone locally by the scorer, so the
// provider is only expected to cut the candidate set down, not to rank.
type CatalogFilters struct {
	ListingType string   `json:"listing_type,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	Bedrooms    *int     `json:"bedrooms,omitempty"`     // exact, from an explicit statement
	MinBedrooms *int     `json:"min_bedrooms,omitempty"` // lower bound, from a family-size hint
	Limit       int      `json:"limit,omitempty"`
}
