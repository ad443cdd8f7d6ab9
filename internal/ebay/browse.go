package ebay

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
)

const (
	defaultBrowseURL   = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	defaultMarketplace = "EBAY_US"

	dialTimeout    = 3 * time.Second
	requestTimeout = 8 * time.Second
)

// BrowseClient implements Client using the eBay Browse API. A Bearer
// token from the TokenProvider is mandatory for every call.
type BrowseClient struct {
	tokens      TokenProvider
	browseURL   string
	marketplace string
	client      *http.Client
	limiter     *ratelimit.Limiter
	log         *slog.Logger
}

// BrowseOption configures the BrowseClient.
type BrowseOption func(*BrowseClient)

// WithBrowseURL overrides the default Browse API endpoint.
func WithBrowseURL(u string) BrowseOption {
	return func(c *BrowseClient) {
		c.browseURL = u
	}
}

// WithMarketplace overrides the default marketplace header.
func WithMarketplace(m string) BrowseOption {
	return func(c *BrowseClient) {
		c.marketplace = m
	}
}

// WithBrowseHTTPClient overrides the default HTTP client.
func WithBrowseHTTPClient(hc *http.Client) BrowseOption {
	return func(c *BrowseClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and
// daily API call limits. When set, every Search() goes through Wait()
// first.
func WithRateLimiter(r *ratelimit.Limiter) BrowseOption {
	return func(c *BrowseClient) {
		c.limiter = r
	}
}

// WithBrowseLogger overrides the default logger.
func WithBrowseLogger(l *slog.Logger) BrowseOption {
	return func(c *BrowseClient) {
		c.log = l
	}
}

// NewBrowseClient creates a new eBay Browse API client.
func NewBrowseClient(tokens TokenProvider, opts ...BrowseOption) *BrowseClient {
	c := &BrowseClient{
		tokens:      tokens,
		browseURL:   defaultBrowseURL,
		marketplace: defaultMarketplace,
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

type browseAPIResponse struct {
	ItemSummaries []ItemSummary `json:"itemSummaries"`
	Total         int           `json:"total"`
	Offset        int           `json:"offset"`
	Limit         int           `json:"limit"`
	Next          string        `json:"next"`
}

// Search implements Client.Search by querying the Browse API. An empty
// itemSummaries array in the response is a successful empty result, not
// an error.
func (c *BrowseClient) Search(
	ctx context.Context,
	req SearchRequest,
) (*SearchResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ratelimit.ErrDailyLimitReached) {
				metrics.DailyLimitHits.WithLabelValues("ebay").Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	metrics.MarketplaceCallsTotal.WithLabelValues("ebay").Inc()

	u := c.buildSearchURL(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.MarketplaceErrorsTotal.WithLabelValues("ebay").Inc()
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.MarketplaceErrorsTotal.WithLabelValues("ebay").Inc()
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.MarketplaceErrorsTotal.WithLabelValues("ebay").Inc()
		c.log.Error("ebay search rejected",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, fmt.Errorf(
			"eBay API error (status %d)",
			resp.StatusCode,
		)
	}

	var apiResp browseAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &SearchResponse{
		Items:   apiResp.ItemSummaries,
		Total:   apiResp.Total,
		Offset:  apiResp.Offset,
		Limit:   apiResp.Limit,
		HasMore: apiResp.Next != "",
	}, nil
}

func (c *BrowseClient) buildSearchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)

	if req.CategoryID != "" {
		params.Set("category_ids", req.CategoryID)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	params.Set("limit", strconv.Itoa(limit))

	if req.Offset > 0 {
		params.Set("offset", strconv.Itoa(req.Offset))
	}

	for k, v := range req.Filters {
		params.Set(k, v)
	}

	return c.browseURL + "?" + params.Encode()
}
