package client

import (
	"context"
	"net/url"
)

// MeliAuthURL returns the Mercado Livre OAuth consent URL.
func (c *Client) MeliAuthURL(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, "/api/v1/auth/meli/url", &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// MeliAuthorize exchanges an authorization code for tokens on the server.
func (c *Client) MeliAuthorize(ctx context.Context, code string) error {
	q := url.Values{}
	q.Set("code", code)
	return c.get(ctx, "/api/v1/auth/meli/callback?"+q.Encode(), nil)
}
