package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// SearchOffersParams defines query parameters for offer searches.
type SearchOffersParams struct {
	Query       string
	Page        int
	PerPage     int
	CategoryID  string
	MinDiscount float64
	PriceMin    float64
	PriceMax    float64
}

// SearchOffers returns discounted offers matching the given parameters.
func (c *Client) SearchOffers(
	ctx context.Context,
	params *SearchOffersParams,
) (*domain.SearchResult, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.CategoryID != "" {
		q.Set("category", params.CategoryID)
	}
	if params.MinDiscount > 0 {
		q.Set("min_discount", strconv.FormatFloat(params.MinDiscount, 'f', -1, 64))
	}
	if params.PriceMin > 0 {
		q.Set("price_min", strconv.FormatFloat(params.PriceMin, 'f', -1, 64))
	}
	if params.PriceMax > 0 {
		q.Set("price_max", strconv.FormatFloat(params.PriceMax, 'f', -1, 64))
	}

	path := "/api/v1/offers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result domain.SearchResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FeaturedOffers returns the highest-discount offers across marketplaces.
func (c *Client) FeaturedOffers(ctx context.Context, limit int) (*domain.SearchResult, error) {
	path := "/api/v1/offers/featured"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var result domain.SearchResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
