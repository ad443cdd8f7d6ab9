// Package meli provides a Mercado Livre search client and the offer
// normalization that turns its search results into domain offers.
// Search works anonymously; an OAuth token unlocks the discount filter.
package meli

import (
	"context"
)

// SearchRequest defines the parameters for a Mercado Livre search.
type SearchRequest struct {
	Query       string
	Limit       int
	Offset      int
	CategoryID  string
	MinDiscount float64
	PriceMin    float64
	PriceMax    float64
}

// Client defines the interface for interacting with the Mercado Livre
// search API.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// TokenSource defines the interface for obtaining OAuth2 tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
