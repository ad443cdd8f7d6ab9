package meli_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/promo-radar/internal/meli"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// stubClient returns a canned search response or error.
type stubClient struct {
	resp    *meli.SearchResponse
	err     error
	lastReq meli.SearchRequest
}

func (s *stubClient) Search(
	_ context.Context, req meli.SearchRequest,
) (*meli.SearchResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func TestService_Search(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		resp: &meli.SearchResponse{
			Results: []meli.SearchItem{
				{
					ID:            "MLB1",
					Title:         "Smart TV LG 50",
					Price:         2699.0,
					OriginalPrice: floatPtr(3299.0),
					AvailableQty:  25,
				},
			},
		},
	}

	svc := meli.NewService(
		meli.NewTokenCache("app", "secret", "https://example.com/cb"),
		client,
	)

	assert.Equal(t, domain.MarketplaceMeli, svc.Name())

	offers, err := svc.Search(context.Background(), domain.SearchFilters{
		Query:       "smart tv",
		PerPage:     20,
		CategoryID:  "MLB1002",
		MinDiscount: 15,
		PriceMin:    500,
		PriceMax:    4000,
	})
	require.NoError(t, err)

	assert.Equal(t, "smart tv", client.lastReq.Query)
	assert.Equal(t, 20, client.lastReq.Limit)
	assert.Equal(t, "MLB1002", client.lastReq.CategoryID)
	assert.InDelta(t, 15.0, client.lastReq.MinDiscount, 0.001)
	assert.InDelta(t, 500.0, client.lastReq.PriceMin, 0.001)
	assert.InDelta(t, 4000.0, client.lastReq.PriceMax, 0.001)

	require.Len(t, offers, 1)
	assert.Equal(t, domain.MarketplaceMeli, offers[0].Marketplace)
	assert.InDelta(t, 18.19, offers[0].DiscountPercent, 0.01)
}

func TestService_SearchError(t *testing.T) {
	t.Parallel()

	svc := meli.NewService(
		meli.NewTokenCache("app", "secret", "https://example.com/cb"),
		&stubClient{err: errors.New("boom")},
	)

	_, err := svc.Search(context.Background(), domain.SearchFilters{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mercado livre search")
}

func TestService_AuthorizationURL(t *testing.T) {
	t.Parallel()

	svc := meli.NewService(
		meli.NewTokenCache("my-app", "secret", "https://example.com/cb"),
		&stubClient{},
	)

	assert.False(t, svc.Authenticated(context.Background()))
	assert.Contains(t, svc.AuthorizationURL(), "client_id=my-app")
}
