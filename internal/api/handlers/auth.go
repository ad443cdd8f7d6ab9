package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// MeliAuthorizer drives the Mercado Livre OAuth authorization flow.
type MeliAuthorizer interface {
	AuthorizationURL() string
	Authorize(ctx context.Context, code string) error
}

// MeliAuthHandler handles the Mercado Livre OAuth endpoints.
type MeliAuthHandler struct {
	auth MeliAuthorizer
}

// NewMeliAuthHandler creates a new MeliAuthHandler.
func NewMeliAuthHandler(auth MeliAuthorizer) *MeliAuthHandler {
	return &MeliAuthHandler{auth: auth}
}

// AuthURLOutput is the response body for the authorization URL endpoint.
type AuthURLOutput struct {
	Body struct {
		URL string `json:"url" doc:"Mercado Livre OAuth consent URL"`
	}
}

// AuthURL returns the consent URL where a user authorizes the app.
func (h *MeliAuthHandler) AuthURL(
	_ context.Context,
	_ *struct{},
) (*AuthURLOutput, error) {
	out := &AuthURLOutput{}
	out.Body.URL = h.auth.AuthorizationURL()
	return out, nil
}

// CallbackInput holds the OAuth callback query parameters.
type CallbackInput struct {
	Code string `query:"code" required:"true" minLength:"1" doc:"Authorization code from the consent redirect"`
}

// CallbackOutput is the response body for the OAuth callback endpoint.
type CallbackOutput struct {
	Body StatusResponse
}

// Callback exchanges the authorization code for tokens.
func (h *MeliAuthHandler) Callback(
	ctx context.Context,
	input *CallbackInput,
) (*CallbackOutput, error) {
	if err := h.auth.Authorize(ctx, input.Code); err != nil {
		return nil, huma.Error502BadGateway("authorizing with Mercado Livre: " + err.Error())
	}

	out := &CallbackOutput{}
	out.Body.Status = "authorized"
	return out, nil
}

// RegisterMeliAuthRoutes registers the OAuth endpoints with the Huma API.
func RegisterMeliAuthRoutes(api huma.API, h *MeliAuthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "meli-auth-url",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/meli/url",
		Summary:     "Mercado Livre consent URL",
		Description: "Returns the OAuth URL where a user grants the application access.",
		Tags:        []string{"auth"},
	}, h.AuthURL)

	huma.Register(api, huma.Operation{
		OperationID: "meli-auth-callback",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/meli/callback",
		Summary:     "Mercado Livre OAuth callback",
		Description: "Exchanges the authorization code for access and refresh tokens.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusBadGateway, http.StatusUnprocessableEntity},
	}, h.Callback)
}
