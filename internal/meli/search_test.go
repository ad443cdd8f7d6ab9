package meli_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/promo-radar/internal/meli"
	"github.com/mfreitas/promo-radar/internal/ratelimit"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// staticTokens is a TokenSource returning a fixed token or error.
type staticTokens struct {
	token string
	err   error
}

func (s *staticTokens) Token(context.Context) (string, error) {
	return s.token, s.err
}

const searchResponseJSON = `{
	"site_id": "MLB",
	"query": "smartphone",
	"paging": {"total": 2, "offset": 0, "limit": 20},
	"results": [
		{
			"id": "MLB123456789",
			"title": "Samsung Galaxy S23 128GB",
			"category_id": "MLB1055",
			"price": 3499.0,
			"original_price": 4199.0,
			"currency_id": "BRL",
			"available_quantity": 45,
			"sold_quantity": 1200,
			"condition": "new",
			"permalink": "https://produto.mercadolivre.com.br/MLB-123456789",
			"thumbnail": "https://http2.mlstatic.com/D_123456-MLB.jpg",
			"shipping": {"free_shipping": true},
			"reviews": {"rating_average": 4.6, "total": 980},
			"seller": {"id": 400, "nickname": "Samsung Oficial"}
		},
		{
			"id": "MLB987654321",
			"title": "Xiaomi Redmi Note 12",
			"category_id": "MLB1055",
			"price": 1299.9,
			"currency_id": "BRL",
			"available_quantity": 0,
			"sold_quantity": 2100,
			"condition": "new",
			"permalink": "https://produto.mercadolivre.com.br/MLB-987654321",
			"thumbnail": "",
			"shipping": {"free_shipping": false}
		}
	]
}`

func TestSearchClient_AnonymousSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "smartphone", r.URL.Query().Get("q"))
			assert.Equal(t, "20", r.URL.Query().Get("limit"))
			// DISCOUNT is an authenticated-only parameter.
			assert.False(t, r.URL.Query().Has("DISCOUNT"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchResponseJSON))
		}),
	)
	defer srv.Close()

	client := meli.NewSearchClient(
		&staticTokens{err: domain.ErrNotAuthenticated},
		meli.WithSearchURL(srv.URL),
	)

	resp, err := client.Search(context.Background(), meli.SearchRequest{
		Query: "smartphone",
		Limit: 20,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "MLB123456789", resp.Results[0].ID)
	require.NotNil(t, resp.Results[0].OriginalPrice)
	assert.InDelta(t, 4199.0, *resp.Results[0].OriginalPrice, 0.001)
	assert.Nil(t, resp.Results[1].OriginalPrice)
	assert.Equal(t, 2, resp.Paging.Total)
}

func TestSearchClient_AuthenticatedSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer APP_USR-token", r.Header.Get("Authorization"))
			assert.Equal(t, "15-100", r.URL.Query().Get("DISCOUNT"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchResponseJSON))
		}),
	)
	defer srv.Close()

	client := meli.NewSearchClient(
		&staticTokens{token: "APP_USR-token"},
		meli.WithSearchURL(srv.URL),
	)

	_, err := client.Search(context.Background(), meli.SearchRequest{
		Query: "smartphone",
	})
	require.NoError(t, err)
}

func TestSearchClient_FilterParams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "MLB1055", q.Get("category"))
			assert.Equal(t, "100-2500", q.Get("price"))
			assert.Equal(t, "30-100", q.Get("DISCOUNT"))
			assert.Equal(t, "40", q.Get("offset"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"paging":{"total":0},"results":[]}`))
		}),
	)
	defer srv.Close()

	client := meli.NewSearchClient(
		&staticTokens{token: "tok"},
		meli.WithSearchURL(srv.URL),
	)

	resp, err := client.Search(context.Background(), meli.SearchRequest{
		Query:       "celular",
		Limit:       20,
		Offset:      40,
		CategoryID:  "MLB1055",
		MinDiscount: 30,
		PriceMin:    100,
		PriceMax:    2500,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearchClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		errContain string
	}{
		{
			name: "upstream 500",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			errContain: "status 500",
		},
		{
			name: "upstream 403",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message":"forbidden"}`))
			},
			errContain: "status 403",
		},
		{
			name: "invalid JSON body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			errContain: "parsing search response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := meli.NewSearchClient(
				&staticTokens{err: domain.ErrNotAuthenticated},
				meli.WithSearchURL(srv.URL),
			)

			_, err := client.Search(context.Background(), meli.SearchRequest{
				Query: "smartphone",
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContain)
		})
	}
}

func TestSearchClient_RateLimiter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"paging":{"total":0},"results":[]}`))
		}),
	)
	defer srv.Close()

	client := meli.NewSearchClient(
		&staticTokens{err: domain.ErrNotAuthenticated},
		meli.WithSearchURL(srv.URL),
		meli.WithRateLimiter(ratelimit.New(100, 10, 1)),
	)

	_, err := client.Search(context.Background(), meli.SearchRequest{Query: "a"})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), meli.SearchRequest{Query: "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ratelimit.ErrDailyLimitReached))
}
