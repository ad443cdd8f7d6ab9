// Package ebay provides an eBay Browse API client and the offer
// normalization that turns its item summaries into domain offers.
package ebay

import (
	"context"
)

// SearchRequest defines the parameters for an eBay search.
type SearchRequest struct {
	Query      string
	CategoryID string
	Limit      int
	Offset     int
	Filters    map[string]string
}

// SearchResponse holds the results of an eBay search.
type SearchResponse struct {
	Items   []ItemSummary
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

// Client defines the interface for interacting with the eBay Browse API.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// TokenProvider defines the interface for obtaining OAuth2 tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// CurrencyConverter converts upstream prices into the display currency.
type CurrencyConverter interface {
	Display() string
	ToDisplay(ctx context.Context, amount float64, source string) float64
}
