package handlers_test

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/promo-radar/internal/api/handlers"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

type fakeProbe struct {
	name          domain.Marketplace
	authenticated bool
}

func (f *fakeProbe) Name() domain.Marketplace            { return f.name }
func (f *fakeProbe) Authenticated(_ context.Context) bool { return f.authenticated }

func TestStatusHandler_Status(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(
		&fakeProbe{name: domain.MarketplaceEbay, authenticated: true},
		&fakeProbe{name: domain.MarketplaceMeli, authenticated: false},
	))

	resp := api.Get("/api/v1/marketplaces/status")
	require.Equal(t, 200, resp.Code)

	assert.Contains(t, resp.Body.String(), `"success":true`)
	assert.Contains(t, resp.Body.String(), `{"marketplace":"ebay","authenticated":true}`)
	assert.Contains(t, resp.Body.String(), `{"marketplace":"mercadolivre","authenticated":false}`)
}

func TestStatusHandler_NoProbes(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler())

	resp := api.Get("/api/v1/marketplaces/status")
	require.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":true`)
}
