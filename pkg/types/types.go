// Package domain defines the core business types for promo-radar.
package domain

import (
	"errors"
	"math"
	"strings"
)

// ErrNotAuthenticated is returned by token caches when no valid token exists
// and none can be obtained. It is never fatal: the aggregator degrades to
// anonymous search or fallback data.
var ErrNotAuthenticated = errors.New("marketplace authentication unavailable")

// Marketplace identifies the source marketplace of an offer.
type Marketplace string

// Marketplace constants.
const (
	MarketplaceEbay Marketplace = "ebay"
	MarketplaceMeli Marketplace = "mercadolivre"
)

// PlaceholderImageURL is used when a marketplace item carries no image.
const PlaceholderImageURL = "https://via.placeholder.com/300"

// Offer is the normalized representation of a discounted marketplace item.
// All marketplace-specific raw shapes are converted into this schema before
// they reach the aggregator.
type Offer struct {
	ExternalID  string      `json:"external_id"`
	Marketplace Marketplace `json:"marketplace"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`

	// Pricing, always in the display currency.
	CurrentPrice    float64 `json:"current_price"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountPercent float64 `json:"discount_percent"`
	Savings         float64 `json:"savings"`
	Currency        string  `json:"currency"`

	URL        string `json:"url,omitempty"`
	ImageURL   string `json:"image_url"`
	CategoryID string `json:"category_external_id,omitempty"`

	InStock      bool `json:"in_stock"`
	AvailableQty *int `json:"available_qty,omitempty"`
	SoldQty      *int `json:"sold_qty,omitempty"`

	Condition    string `json:"condition"`
	FreeShipping bool   `json:"free_shipping"`

	RatingAvg   *float64 `json:"rating_avg,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`

	SellerID   string `json:"seller_id,omitempty"`
	SellerName string `json:"seller_name,omitempty"`
}

// Key returns the marketplace-qualified dedup key for the offer. Item ids are
// only unique within a marketplace, so the key carries both.
func (o *Offer) Key() string {
	return string(o.Marketplace) + ":" + o.ExternalID
}

// MatchesQuery reports whether the offer name contains the query term,
// case-insensitively. An empty term matches everything.
func (o *Offer) MatchesQuery(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.Name), strings.ToLower(term))
}

// SearchFilters are the caller-supplied parameters for an aggregated search.
type SearchFilters struct {
	Query       string
	Page        int
	PerPage     int
	CategoryID  string
	MinDiscount float64
	PriceMin    float64
	PriceMax    float64
}

// Offset returns the zero-based index of the first offer in the requested page.
func (f *SearchFilters) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// SearchResult is the paginated response shape exposed to callers.
// Total counts the offers in this page slice, not the full merged set.
type SearchResult struct {
	Success bool    `json:"success"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Total   int     `json:"total"`
	Offers  []Offer `json:"offers"`
	Warning string  `json:"warning,omitempty"`
}

// DiscountPercent computes the discount of current over original as a
// percentage rounded to two decimal places. Malformed price pairs (zero or
// inverted) yield zero rather than a negative discount.
func DiscountPercent(original, current float64) float64 {
	if original <= 0 || current >= original {
		return 0
	}
	return math.Round(((original-current)/original)*100*100) / 100
}

// SavingsAmount returns original minus current, clamped at zero.
func SavingsAmount(original, current float64) float64 {
	if current >= original {
		return 0
	}
	return original - current
}

// Category is an entry of the marketplace category taxonomy.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
