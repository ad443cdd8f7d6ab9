// Package rates converts marketplace prices into the display currency using
// a TTL-cached exchange rate with a fixed fallback when the rate service is
// unreachable.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mfreitas/promo-radar/internal/metrics"
	"github.com/mfreitas/promo-radar/pkg/logger"
)

const (
	defaultRateURL = "https://open.er-api.com/v6/latest"
	dialTimeout    = 3 * time.Second
	totalTimeout   = 8 * time.Second
)

// Client fetches and caches exchange rates keyed by source currency.
// The cached rate is written only by the fetch path; every conversion is a
// pure multiplication over the cached value.
type Client struct {
	rateURL     string
	display     string
	defaultRate float64
	ttl         time.Duration
	client      *http.Client
	log         *slog.Logger
	nowFunc     func() time.Time

	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt map[string]time.Time
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = f
	}
}

// WithRateURL overrides the default rate service base URL.
func WithRateURL(u string) Option {
	return func(c *Client) {
		c.rateURL = u
	}
}

// New creates a rate client converting into display currency, falling back to
// defaultRate when the rate service is unavailable. Rates are cached for ttl.
func New(display string, defaultRate float64, ttl time.Duration, opts ...Option) *Client {
	c := &Client{
		rateURL:     defaultRateURL,
		display:     display,
		defaultRate: defaultRate,
		ttl:         ttl,
		client: &http.Client{
			Timeout: totalTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: dialTimeout}).DialContext,
			},
		},
		log:       logger.Discard(),
		nowFunc:   time.Now,
		rates:     make(map[string]float64),
		fetchedAt: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Display returns the display currency code.
func (c *Client) Display() string {
	return c.display
}

// ToDisplay converts amount from source currency into the display currency,
// rounded to two decimal places. Conversion never fails: when no fresh rate
// can be fetched the configured default rate is applied instead.
func (c *Client) ToDisplay(ctx context.Context, amount float64, source string) float64 {
	if source == c.display || source == "" {
		return round2(amount)
	}
	return round2(amount * c.rate(ctx, source))
}

// Refresh force-fetches the rate for source, replacing whatever is cached.
// Used by the scheduled warmup so the first request never pays fetch latency.
func (c *Client) Refresh(ctx context.Context, source string) error {
	rate, err := c.fetch(ctx, source)
	if err != nil {
		return err
	}
	c.store(source, rate)
	return nil
}

func (c *Client) rate(ctx context.Context, source string) float64 {
	c.mu.RLock()
	rate, ok := c.rates[source]
	fresh := ok && c.nowFunc().Sub(c.fetchedAt[source]) < c.ttl
	c.mu.RUnlock()

	if fresh {
		return rate
	}

	fetched, err := c.fetch(ctx, source)
	if err != nil {
		metrics.RateFetchFailuresTotal.Inc()
		c.log.Warn("exchange rate fetch failed, using default rate",
			"source", source,
			"display", c.display,
			"default_rate", c.defaultRate,
			"error", err,
		)
		fetched = c.defaultRate
	}

	c.store(source, fetched)
	return fetched
}

func (c *Client) store(source string, rate float64) {
	now := c.nowFunc()
	c.mu.Lock()
	c.rates[source] = rate
	c.fetchedAt[source] = now
	c.mu.Unlock()
}

type rateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (c *Client) fetch(ctx context.Context, source string) (float64, error) {
	u := c.rateURL + "/" + source

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("creating rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing rate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading rate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf(
			"rate service error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var parsed rateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parsing rate response: %w", err)
	}

	rate, ok := parsed.Rates[c.display]
	if !ok {
		return 0, fmt.Errorf("rate response missing %s for base %s", c.display, source)
	}

	return rate, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
