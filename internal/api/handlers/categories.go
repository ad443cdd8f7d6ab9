package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// CategoryProvider lists the category taxonomy.
type CategoryProvider interface {
	Categories() []domain.Category
}

// CategoriesHandler serves the category taxonomy.
type CategoriesHandler struct {
	provider CategoryProvider
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(p CategoryProvider) *CategoriesHandler {
	return &CategoriesHandler{provider: p}
}

// CategoriesOutput is the response body for the categories endpoint.
type CategoriesOutput struct {
	Body struct {
		Success    bool              `json:"success"`
		Categories []domain.Category `json:"categories"`
	}
}

// List returns the category taxonomy.
func (h *CategoriesHandler) List(
	_ context.Context,
	_ *struct{},
) (*CategoriesOutput, error) {
	out := &CategoriesOutput{}
	out.Body.Success = true
	out.Body.Categories = h.provider.Categories()
	return out, nil
}

// RegisterCategoriesRoutes registers the categories endpoint with the Huma API.
func RegisterCategoriesRoutes(api huma.API, h *CategoriesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns the marketplace category taxonomy used for filtering offers.",
		Tags:        []string{"categories"},
	}, h.List)
}
