package ebay

import (
	"context"
	"encoding/base64"
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
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // not a credential
	refreshMargin   = 300 * time.Second
)

// OAuthTokenProvider implements TokenProvider using the eBay OAuth2
// client credentials flow. It caches tokens and refreshes when the
// cached token is expired or within 300 seconds of expiry. Thread-safe
// via mutex, so concurrent callers trigger at most one refresh.
type OAuthTokenProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	client       *http.Client
	scopes       string
	log          *slog.Logger

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time // for testing
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithTokenURL overrides the default eBay token endpoint.
func WithTokenURL(u string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.tokenURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.nowFunc = f
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.log = l
	}
}

// NewOAuthTokenProvider creates a new eBay OAuth2 token provider.
func NewOAuthTokenProvider(
	clientID, clientSecret string,
	opts ...OAuthOption,
) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		scopes:       "https://api.ebay.com/oauth/api_scope",
		log:          slog.Default(),
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token returns a valid OAuth2 access token, refreshing if necessary.
// Refresh failures are reported as domain.ErrNotAuthenticated.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry) {
		return p.token, nil
	}

	token, err := p.refreshLocked(ctx)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("ebay", "failure").Inc()
		return "", fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
	}
	metrics.TokenRefreshesTotal.WithLabelValues("ebay", "success").Inc()
	return token, nil
}

// ClearToken drops the cached token so the next call fetches a fresh one.
func (p *OAuthTokenProvider) ClearToken() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.expiry = time.Time{}
}

func (p *OAuthTokenProvider) refreshLocked(
	ctx context.Context,
) (string, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {p.scopes},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	creds := base64.StdEncoding.EncodeToString(
		[]byte(p.clientID + ":" + p.clientSecret),
	)
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.log.Error("ebay token request rejected",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return "", fmt.Errorf(
			"token request failed (status %d)",
			resp.StatusCode,
		)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	p.token = tokenResp.AccessToken
	p.expiry = p.nowFunc().Add(
		time.Duration(tokenResp.ExpiresIn)*time.Second - refreshMargin,
	)

	return p.token, nil
}
