package ebay

import (
	"context"
	"fmt"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// Service adapts the Browse API client to the aggregator's marketplace
// contract: authenticate, search, normalize. eBay has no anonymous
// search, so a failed token fetch fails the whole call.
type Service struct {
	tokens TokenProvider
	client Client
	conv   CurrencyConverter
}

// NewService creates the eBay marketplace adapter.
func NewService(
	tokens TokenProvider,
	client Client,
	conv CurrencyConverter,
) *Service {
	return &Service{
		tokens: tokens,
		client: client,
		conv:   conv,
	}
}

// Name returns the marketplace tag stamped on every offer.
func (s *Service) Name() domain.Marketplace {
	return domain.MarketplaceEbay
}

// Search runs a Browse API search and normalizes the results. PerPage
// caps the number of items requested upstream.
func (s *Service) Search(
	ctx context.Context,
	filters domain.SearchFilters,
) ([]domain.Offer, error) {
	resp, err := s.client.Search(ctx, SearchRequest{
		Query:      filters.Query,
		CategoryID: filters.CategoryID,
		Limit:      filters.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("ebay search: %w", err)
	}

	return ToOffers(ctx, resp.Items, s.conv), nil
}

// Authenticated reports whether a usable access token is available.
func (s *Service) Authenticated(ctx context.Context) bool {
	_, err := s.tokens.Token(ctx)
	return err == nil
}
