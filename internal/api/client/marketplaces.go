package client

import (
	"context"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// CategoriesResponse wraps the category list response.
type CategoriesResponse struct {
	Success    bool              `json:"success"`
	Categories []domain.Category `json:"categories"`
}

// ListCategories returns the category taxonomy.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp CategoriesResponse
	if err := c.get(ctx, "/api/v1/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// MarketplaceStatus is one marketplace's entry in the status response.
type MarketplaceStatus struct {
	Marketplace   domain.Marketplace `json:"marketplace"`
	Authenticated bool               `json:"authenticated"`
}

// StatusResponse wraps the marketplace status response.
type StatusResponse struct {
	Success      bool                `json:"success"`
	Marketplaces []MarketplaceStatus `json:"marketplaces"`
}

// MarketplacesStatus returns per-marketplace auth state.
func (c *Client) MarketplacesStatus(ctx context.Context) ([]MarketplaceStatus, error) {
	var resp StatusResponse
	if err := c.get(ctx, "/api/v1/marketplaces/status", &resp); err != nil {
		return nil, err
	}
	return resp.Marketplaces, nil
}
