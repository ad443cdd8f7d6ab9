package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListCategories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListCategories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_SearchOffers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/offers", r.URL.Path)
		assert.Equal(t, "iphone", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		assert.Equal(t, "MLB1055", r.URL.Query().Get("category"))
		assert.Equal(t, "25", r.URL.Query().Get("min_discount"))
		assert.Equal(t, "100", r.URL.Query().Get("price_min"))
		assert.Equal(t, "5000", r.URL.Query().Get("price_max"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.SearchResult{
			Success: true,
			Page:    2,
			PerPage: 10,
			Total:   1,
			Offers: []domain.Offer{
				{ExternalID: "MLB1", Name: "iPhone 14", DiscountPercent: 30},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.SearchOffers(context.Background(), &SearchOffersParams{
		Query:       "iphone",
		Page:        2,
		PerPage:     10,
		CategoryID:  "MLB1055",
		MinDiscount: 25,
		PriceMin:    100,
		PriceMax:    5000,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Offers, 1)
	assert.Equal(t, "MLB1", result.Offers[0].ExternalID)
}

func TestClient_SearchOffersOmitsZeroParams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.SearchResult{Success: true})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.SearchOffers(context.Background(), &SearchOffersParams{})
	require.NoError(t, err)
}

func TestClient_FeaturedOffers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/offers/featured", r.URL.Path)
		assert.Equal(t, "6", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.SearchResult{
			Success: true,
			Offers:  []domain.Offer{{ExternalID: "e1", DiscountPercent: 50}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.FeaturedOffers(context.Background(), 6)
	require.NoError(t, err)
	assert.Len(t, result.Offers, 1)
}

func TestClient_ListCategories(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/categories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CategoriesResponse{
			Success: true,
			Categories: []domain.Category{
				{ID: "MLB1055", Name: "Celulares e Telefones"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	categories, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "MLB1055", categories[0].ID)
}

func TestClient_MarketplacesStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/marketplaces/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(StatusResponse{
			Success: true,
			Marketplaces: []MarketplaceStatus{
				{Marketplace: domain.MarketplaceEbay, Authenticated: true},
				{Marketplace: domain.MarketplaceMeli, Authenticated: false},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	statuses, err := c.MarketplacesStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Authenticated)
	assert.False(t, statuses[1].Authenticated)
}

func TestClient_MeliAuth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/auth/meli/url":
			json.NewEncoder(w).Encode(map[string]string{
				"url": "https://auth.mercadolivre.com.br/authorization?client_id=app-1",
			})
		case "/api/v1/auth/meli/callback":
			assert.Equal(t, "TG-abc", r.URL.Query().Get("code"))
			json.NewEncoder(w).Encode(map[string]string{"status": "authorized"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	url, err := c.MeliAuthURL(context.Background())
	require.NoError(t, err)
	assert.Contains(t, url, "auth.mercadolivre.com.br")

	require.NoError(t, c.MeliAuthorize(context.Background(), "TG-abc"))
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
