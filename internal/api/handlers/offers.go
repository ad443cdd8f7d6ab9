// Package handlers implements HTTP handlers for the promo-radar API.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mfreitas/promo-radar/internal/aggregator"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// featuredMinDiscount is the discount floor for the featured shelf.
const featuredMinDiscount = 30

// OfferSearcher runs the aggregated offer search.
type OfferSearcher interface {
	SearchOffers(ctx context.Context, filters domain.SearchFilters) (*domain.SearchResult, error)
}

// OffersHandler handles aggregated offer searches.
type OffersHandler struct {
	agg OfferSearcher
}

// NewOffersHandler creates a new OffersHandler.
func NewOffersHandler(agg OfferSearcher) *OffersHandler {
	return &OffersHandler{agg: agg}
}

// OffersInput holds the query parameters of the offers endpoint.
type OffersInput struct {
	Query       string  `query:"q" doc:"Search term; empty browses the curated category terms" example:"iphone"`
	Page        int     `query:"page" minimum:"1" default:"1" doc:"Page number" example:"1"`
	PerPage     int     `query:"per_page" minimum:"1" maximum:"50" default:"20" doc:"Offers per page" example:"20"`
	Category    string  `query:"category" doc:"Marketplace category id" example:"MLB1055"`
	MinDiscount float64 `query:"min_discount" minimum:"0" maximum:"100" doc:"Minimum discount percent" example:"15"`
	PriceMin    float64 `query:"price_min" minimum:"0" doc:"Minimum current price" example:"100"`
	PriceMax    float64 `query:"price_max" minimum:"0" doc:"Maximum current price" example:"2500"`
}

// OffersOutput is the response body for the offers endpoints.
type OffersOutput struct {
	Body domain.SearchResult
}

// Search runs the aggregated search across all marketplaces.
func (h *OffersHandler) Search(
	ctx context.Context,
	input *OffersInput,
) (*OffersOutput, error) {
	res, err := h.agg.SearchOffers(ctx, domain.SearchFilters{
		Query:       input.Query,
		Page:        input.Page,
		PerPage:     input.PerPage,
		CategoryID:  input.Category,
		MinDiscount: input.MinDiscount,
		PriceMin:    input.PriceMin,
		PriceMax:    input.PriceMax,
	})
	if err != nil {
		if errors.Is(err, aggregator.ErrInvalidFilters) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error500InternalServerError("searching offers: " + err.Error())
	}

	return &OffersOutput{Body: *res}, nil
}

// FeaturedInput holds the query parameters of the featured endpoint.
type FeaturedInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"50" default:"12" doc:"Number of featured offers" example:"12"`
}

// Featured serves the highest-discount browse-mode offers.
func (h *OffersHandler) Featured(
	ctx context.Context,
	input *FeaturedInput,
) (*OffersOutput, error) {
	res, err := h.agg.SearchOffers(ctx, domain.SearchFilters{
		Page:        1,
		PerPage:     input.Limit,
		MinDiscount: featuredMinDiscount,
	})
	if err != nil {
		if errors.Is(err, aggregator.ErrInvalidFilters) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error500InternalServerError("searching featured offers: " + err.Error())
	}

	return &OffersOutput{Body: *res}, nil
}

// RegisterOffersRoutes registers the offer endpoints with the Huma API.
func RegisterOffersRoutes(api huma.API, h *OffersHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-offers",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers",
		Summary:     "Search discounted offers",
		Description: "Aggregates discounted offers from all configured marketplaces, sorted by discount percent.",
		Tags:        []string{"offers"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.Search)

	huma.Register(api, huma.Operation{
		OperationID: "featured-offers",
		Method:      http.MethodGet,
		Path:        "/api/v1/offers/featured",
		Summary:     "List featured offers",
		Description: "Serves the browse-mode offers with at least 30% discount.",
		Tags:        []string{"offers"},
	}, h.Featured)
}
