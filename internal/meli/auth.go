package meli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mfreitas/promo-radar/internal/metrics"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

const (
	defaultAuthURL  = "https://auth.mercadolivre.com.br/authorization"
	defaultTokenURL = "https://api.mercadolibre.com/oauth/token" //nolint:gosec // not a credential

	refreshMargin   = 300 * time.Second
	refreshTokenTTL = 180 * 24 * time.Hour
)

// TokenCache implements TokenSource using the Mercado Livre OAuth2
// authorization-code flow. The initial grant comes from Authorize with
// a code obtained via AuthorizationURL; after that, expired access
// tokens are renewed with the cached refresh token. Refresh tokens are
// kept for 180 days. Thread-safe via mutex, so concurrent callers
// trigger at most one refresh.
type TokenCache struct {
	appID       string
	secretKey   string
	redirectURI string
	authURL     string
	tokenURL    string
	client      *http.Client
	log         *slog.Logger
	grants      GrantStore

	mu            sync.Mutex
	accessToken   string
	accessExpiry  time.Time
	refreshToken  string
	refreshExpiry time.Time
	nowFunc       func() time.Time // for testing
}

// Grant is the OAuth token pair held by the cache.
type Grant struct {
	AccessToken   string
	RefreshToken  string
	AccessExpiry  time.Time
	RefreshExpiry time.Time
}

// GrantStore persists grants across restarts. Load returns nil with no
// error when nothing is stored.
type GrantStore interface {
	SaveGrant(ctx context.Context, g Grant) error
	LoadGrant(ctx context.Context) (*Grant, error)
	DeleteGrant(ctx context.Context) error
}

// TokenOption configures the TokenCache.
type TokenOption func(*TokenCache)

// WithAuthURL overrides the default authorization endpoint.
func WithAuthURL(u string) TokenOption {
	return func(c *TokenCache) {
		c.authURL = u
	}
}

// WithTokenURL overrides the default token endpoint.
func WithTokenURL(u string) TokenOption {
	return func(c *TokenCache) {
		c.tokenURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) TokenOption {
	return func(c *TokenCache) {
		c.client = hc
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) TokenOption {
	return func(c *TokenCache) {
		c.nowFunc = f
	}
}

// WithGrantStore persists grants so authorization survives restarts.
func WithGrantStore(s GrantStore) TokenOption {
	return func(c *TokenCache) {
		c.grants = s
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) TokenOption {
	return func(c *TokenCache) {
		c.log = l
	}
}

// NewTokenCache creates a new Mercado Livre OAuth2 token cache.
func NewTokenCache(
	appID, secretKey, redirectURI string,
	opts ...TokenOption,
) *TokenCache {
	c := &TokenCache{
		appID:       appID,
		secretKey:   secretKey,
		redirectURI: redirectURI,
		authURL:     defaultAuthURL,
		tokenURL:    defaultTokenURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         slog.Default(),
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       int64  `json:"user_id"`
	TokenType    string `json:"token_type"`
}

// AuthorizationURL returns the URL where a user grants access to the
// application. The callback receives the code that Authorize exchanges.
func (c *TokenCache) AuthorizationURL() string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {c.appID},
		"redirect_uri":  {c.redirectURI},
	}
	return c.authURL + "?" + params.Encode()
}

// Authorize exchanges an authorization code for access and refresh
// tokens, caching both.
func (c *TokenCache) Authorize(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {c.appID},
		"client_secret": {c.secretKey},
		"code":          {code},
		"redirect_uri":  {c.redirectURI},
	}

	resp, err := c.exchange(ctx, form)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	c.storeLocked(resp)
	c.persistLocked(ctx)
	c.log.Info("mercado livre authorized", "user_id", resp.UserID)
	return nil
}

// Restore loads a previously persisted grant. Call once on startup
// before serving traffic. A missing grant is not an error.
func (c *TokenCache) Restore(ctx context.Context) error {
	if c.grants == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	g, err := c.grants.LoadGrant(ctx)
	if err != nil {
		return fmt.Errorf("loading persisted grant: %w", err)
	}
	if g == nil || !c.nowFunc().Before(g.RefreshExpiry) {
		return nil
	}

	c.accessToken = g.AccessToken
	c.accessExpiry = g.AccessExpiry
	c.refreshToken = g.RefreshToken
	c.refreshExpiry = g.RefreshExpiry
	c.log.Info("mercado livre grant restored", "refresh_expiry", g.RefreshExpiry)
	return nil
}

// Token returns a valid access token. An expired access token is
// renewed with the cached refresh token; with no usable refresh token
// the call fails with domain.ErrNotAuthenticated.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()

	if c.accessToken != "" && now.Before(c.accessExpiry) {
		return c.accessToken, nil
	}

	if c.refreshToken == "" || !now.Before(c.refreshExpiry) {
		return "", fmt.Errorf(
			"%w: no refresh token, authorization required",
			domain.ErrNotAuthenticated,
		)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {c.appID},
		"client_secret": {c.secretKey},
		"refresh_token": {c.refreshToken},
	}

	resp, err := c.exchange(ctx, form)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("mercadolivre", "failure").Inc()
		return "", fmt.Errorf("%w: refreshing token: %w", domain.ErrNotAuthenticated, err)
	}
	metrics.TokenRefreshesTotal.WithLabelValues("mercadolivre", "success").Inc()

	c.storeLocked(resp)
	c.persistLocked(ctx)
	return c.accessToken, nil
}

// Authenticated reports whether any usable token is cached.
func (c *TokenCache) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	if c.accessToken != "" && now.Before(c.accessExpiry) {
		return true
	}
	return c.refreshToken != "" && now.Before(c.refreshExpiry)
}

// ClearTokens drops both cached tokens. The next Token call requires a
// new authorization.
func (c *TokenCache) ClearTokens() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
	c.accessExpiry = time.Time{}
	c.refreshToken = ""
	c.refreshExpiry = time.Time{}

	if c.grants != nil {
		if err := c.grants.DeleteGrant(context.Background()); err != nil {
			c.log.Warn("deleting persisted grant", "error", err)
		}
	}
	c.log.Info("mercado livre tokens cleared")
}

func (c *TokenCache) storeLocked(resp *tokenResponse) {
	now := c.nowFunc()
	c.accessToken = resp.AccessToken
	c.accessExpiry = now.Add(
		time.Duration(resp.ExpiresIn)*time.Second - refreshMargin,
	)
	// Mercado Livre rotates the refresh token on every grant.
	c.refreshToken = resp.RefreshToken
	c.refreshExpiry = now.Add(refreshTokenTTL)
}

// persistLocked writes the current grant to the store. Persistence
// failures are log-only; the in-memory grant keeps working.
func (c *TokenCache) persistLocked(ctx context.Context) {
	if c.grants == nil {
		return
	}

	g := Grant{
		AccessToken:   c.accessToken,
		RefreshToken:  c.refreshToken,
		AccessExpiry:  c.accessExpiry,
		RefreshExpiry: c.refreshExpiry,
	}
	if err := c.grants.SaveGrant(ctx, g); err != nil {
		c.log.Warn("persisting grant", "error", err)
	}
}

func (c *TokenCache) exchange(
	ctx context.Context,
	form url.Values,
) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error("mercado livre token request rejected",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, fmt.Errorf(
			"token request failed (status %d)",
			resp.StatusCode,
		)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	return &tokenResp, nil
}
