package meli

import (
	"context"
	"fmt"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// Service adapts the search client to the aggregator's marketplace
// contract. Unlike eBay, search degrades gracefully to anonymous calls
// when no token is available.
type Service struct {
	tokens *TokenCache
	client Client
}

// NewService creates the Mercado Livre marketplace adapter.
func NewService(tokens *TokenCache, client Client) *Service {
	return &Service{
		tokens: tokens,
		client: client,
	}
}

// Name returns the marketplace tag stamped on every offer.
func (s *Service) Name() domain.Marketplace {
	return domain.MarketplaceMeli
}

// Search runs a site search and normalizes the results.
func (s *Service) Search(
	ctx context.Context,
	filters domain.SearchFilters,
) ([]domain.Offer, error) {
	resp, err := s.client.Search(ctx, SearchRequest{
		Query:       filters.Query,
		Limit:       filters.PerPage,
		CategoryID:  filters.CategoryID,
		MinDiscount: filters.MinDiscount,
		PriceMin:    filters.PriceMin,
		PriceMax:    filters.PriceMax,
	})
	if err != nil {
		return nil, fmt.Errorf("mercado livre search: %w", err)
	}

	return ToOffers(resp.Results), nil
}

// Authenticated reports whether an OAuth grant is cached.
func (s *Service) Authenticated(context.Context) bool {
	return s.tokens.Authenticated()
}

// AuthorizationURL exposes the token cache's OAuth consent URL.
func (s *Service) AuthorizationURL() string {
	return s.tokens.AuthorizationURL()
}

// Authorize exchanges an OAuth callback code for tokens.
func (s *Service) Authorize(ctx context.Context, code string) error {
	return s.tokens.Authorize(ctx, code)
}
