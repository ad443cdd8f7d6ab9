package meli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mfreitas/promo-radar/internal/metrics"
	"github.com/mfreitas/promo-radar/internal/ratelimit"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

const (
	defaultSearchURL = "https://api.mercadolibre.com/sites/MLB/search"

	// DISCOUNT filter the API accepts only on authenticated calls.
	defaultDiscountRange = "15-100"

	dialTimeout    = 3 * time.Second
	requestTimeout = 8 * time.Second
)

// SearchClient implements Client against /sites/MLB/search. Calls work
// without a token; when the TokenSource yields one, the request carries
// it and adds the DISCOUNT filter, which the API ignores for anonymous
// callers.
type SearchClient struct {
	tokens    TokenSource
	searchURL string
	client    *http.Client
	limiter   *ratelimit.Limiter
	log       *slog.Logger
}

// SearchOption configures the SearchClient.
type SearchOption func(*SearchClient)

// WithSearchURL overrides the default search endpoint.
func WithSearchURL(u string) SearchOption {
	return func(c *SearchClient) {
		c.searchURL = u
	}
}

// WithSearchHTTPClient overrides the default HTTP client.
func WithSearchHTTPClient(hc *http.Client) SearchOption {
	return func(c *SearchClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter gating every Search call.
func WithRateLimiter(r *ratelimit.Limiter) SearchOption {
	return func(c *SearchClient) {
		c.limiter = r
	}
}

// WithSearchLogger overrides the default logger.
func WithSearchLogger(l *slog.Logger) SearchOption {
	return func(c *SearchClient) {
		c.log = l
	}
}

// NewSearchClient creates a new Mercado Livre search client.
func NewSearchClient(tokens TokenSource, opts ...SearchOption) *SearchClient {
	c := &SearchClient{
		tokens:    tokens,
		searchURL: defaultSearchURL,
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: dialTimeout,
				}).DialContext,
			},
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search implements Client.Search. An empty results array in the
// response is a successful empty result, not an error.
func (c *SearchClient) Search(
	ctx context.Context,
	req SearchRequest,
) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ratelimit.ErrDailyLimitReached) {
				metrics.DailyLimitHits.WithLabelValues("mercadolivre").Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	// Anonymous search is allowed, so a missing token is not an error.
	var token string
	if c.tokens != nil {
		t, err := c.tokens.Token(ctx)
		switch {
		case err == nil:
			token = t
		case errors.Is(err, domain.ErrNotAuthenticated):
			c.log.Debug("searching mercado livre anonymously")
		default:
			c.log.Warn("mercado livre token unavailable", "error", err)
		}
	}

	metrics.MarketplaceCallsTotal.WithLabelValues("mercadolivre").Inc()

	u := c.buildSearchURL(req, token != "")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.MarketplaceErrorsTotal.WithLabelValues("mercadolivre").Inc()
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.MarketplaceErrorsTotal.WithLabelValues("mercadolivre").Inc()
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.MarketplaceErrorsTotal.WithLabelValues("mercadolivre").Inc()
		c.log.Error("mercado livre search rejected",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, fmt.Errorf(
			"Mercado Livre API error (status %d)",
			resp.StatusCode,
		)
	}

	var apiResp SearchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &apiResp, nil
}

func (c *SearchClient) buildSearchURL(
	req SearchRequest,
	authenticated bool,
) string {
	params := url.Values{}

	if req.Query != "" {
		params.Set("q", req.Query)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	params.Set("limit", strconv.Itoa(limit))

	if req.Offset > 0 {
		params.Set("offset", strconv.Itoa(req.Offset))
	}

	if authenticated {
		discount := defaultDiscountRange
		if req.MinDiscount > 0 {
			discount = fmt.Sprintf("%d-100", int(req.MinDiscount))
		}
		params.Set("DISCOUNT", discount)
	}

	if req.CategoryID != "" {
		params.Set("category", req.CategoryID)
	}

	if req.PriceMax > 0 {
		params.Set("price", fmt.Sprintf(
			"%s-%s",
			strconv.FormatFloat(req.PriceMin, 'f', -1, 64),
			strconv.FormatFloat(req.PriceMax, 'f', -1, 64),
		))
	}

	return c.searchURL + "?" + params.Encode()
}
