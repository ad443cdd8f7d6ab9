package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// MarketplaceProbe reports marketplace identity and auth state.
type MarketplaceProbe interface {
	Name() domain.Marketplace
	Authenticated(ctx context.Context) bool
}

// StatusHandler reports per-marketplace connectivity.
type StatusHandler struct {
	probes []MarketplaceProbe
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(probes ...MarketplaceProbe) *StatusHandler {
	return &StatusHandler{probes: probes}
}

// MarketplaceStatus is one marketplace's entry in the status response.
type MarketplaceStatus struct {
	Marketplace   domain.Marketplace `json:"marketplace"`
	Authenticated bool               `json:"authenticated"`
}

// StatusOutput is the response body for the status endpoint.
type StatusOutput struct {
	Body struct {
		Success      bool                `json:"success"`
		Marketplaces []MarketplaceStatus `json:"marketplaces"`
	}
}

// List returns every marketplace with its auth state.
func (h *StatusHandler) List(
	ctx context.Context,
	_ *struct{},
) (*StatusOutput, error) {
	statuses := make([]MarketplaceStatus, 0, len(h.probes))
	for _, p := range h.probes {
		statuses = append(statuses, MarketplaceStatus{
			Marketplace:   p.Name(),
			Authenticated: p.Authenticated(ctx),
		})
	}

	out := &StatusOutput{}
	out.Body.Success = true
	out.Body.Marketplaces = statuses
	return out, nil
}

// RegisterStatusRoutes registers the status endpoint with the Huma API.
func RegisterStatusRoutes(api huma.API, h *StatusHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "marketplaces-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplaces/status",
		Summary:     "Marketplace connectivity status",
		Description: "Reports which marketplaces currently hold usable credentials.",
		Tags:        []string{"marketplaces"},
	}, h.List)
}
