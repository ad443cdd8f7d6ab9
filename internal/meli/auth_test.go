package meli_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/promo-radar/internal/meli"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// grantJSON returns a valid Mercado Livre token response as JSON bytes.
func grantJSON(access, refresh string) []byte {
	return []byte(fmt.Sprintf(
		`{"access_token":%q,"refresh_token":%q,"expires_in":21600,"user_id":123456,"token_type":"Bearer"}`,
		access,
		refresh,
	))
}

func newCache(t *testing.T, tokenURL string, opts ...meli.TokenOption) *meli.TokenCache {
	t.Helper()
	opts = append(
		[]meli.TokenOption{meli.WithTokenURL(tokenURL)},
		opts...,
	)
	return meli.NewTokenCache(
		"test-app-id",
		"test-secret-key",
		"https://example.com/callback",
		opts...,
	)
}

func TestTokenCache_AuthorizationURL(t *testing.T) {
	t.Parallel()

	cache := meli.NewTokenCache(
		"test-app-id",
		"test-secret-key",
		"https://example.com/callback",
	)

	u := cache.AuthorizationURL()
	assert.Contains(t, u, "auth.mercadolivre.com.br/authorization")
	assert.Contains(t, u, "response_type=code")
	assert.Contains(t, u, "client_id=test-app-id")
	assert.Contains(t, u, "redirect_uri=https%3A%2F%2Fexample.com%2Fcallback")
}

func TestTokenCache_Authorize(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
			assert.Equal(t, "test-app-id", r.FormValue("client_id"))
			assert.Equal(t, "test-secret-key", r.FormValue("client_secret"))
			assert.Equal(t, "TG-CODE-123", r.FormValue("code"))
			assert.Equal(
				t,
				"https://example.com/callback",
				r.FormValue("redirect_uri"),
			)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(grantJSON("APP_USR-access", "TG-refresh"))
		}),
	)
	defer srv.Close()

	cache := newCache(t, srv.URL)

	assert.False(t, cache.Authenticated())

	err := cache.Authorize(context.Background(), "TG-CODE-123")
	require.NoError(t, err)
	assert.True(t, cache.Authenticated())

	// Token is served from the cache, no refresh needed.
	token, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "APP_USR-access", token)
}

func TestTokenCache_AuthorizeRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		}),
	)
	defer srv.Close()

	cache := newCache(t, srv.URL)

	err := cache.Authorize(context.Background(), "bad-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.False(t, cache.Authenticated())
}

func TestTokenCache_TokenWithoutGrant(t *testing.T) {
	t.Parallel()

	cache := meli.NewTokenCache(
		"test-app-id",
		"test-secret-key",
		"https://example.com/callback",
	)

	_, err := cache.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestTokenCache_RefreshOnExpiry(t *testing.T) {
	t.Parallel()

	var grants atomic.Int32
	now := time.Now()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := grants.Add(1)
			assert.NoError(t, r.ParseForm())

			w.Header().Set("Content-Type", "application/json")
			if n == 1 {
				assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
				_, _ = w.Write(grantJSON("access-1", "refresh-1"))
				return
			}

			// Refresh grant carries the previously issued refresh token.
			assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
			assert.Equal(t, "refresh-1", r.FormValue("refresh_token"))
			_, _ = w.Write(grantJSON("access-2", "refresh-2"))
		}),
	)
	defer srv.Close()

	currentTime := now
	var mu sync.Mutex

	cache := newCache(t, srv.URL, meli.WithNowFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return currentTime
	}))

	require.NoError(t, cache.Authorize(context.Background(), "code"))

	// Inside the margin window (21600s - 300s = 21300s) the cached
	// access token is reused.
	mu.Lock()
	currentTime = now.Add(21299 * time.Second)
	mu.Unlock()

	token, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, int32(1), grants.Load())

	// Past the margin, the next call refreshes.
	mu.Lock()
	currentTime = now.Add(21301 * time.Second)
	mu.Unlock()

	token, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
	assert.Equal(t, int32(2), grants.Load())
}

func TestTokenCache_RefreshTokenExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(grantJSON("access-1", "refresh-1"))
		}),
	)
	defer srv.Close()

	currentTime := now
	var mu sync.Mutex

	cache := newCache(t, srv.URL, meli.WithNowFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return currentTime
	}))

	require.NoError(t, cache.Authorize(context.Background(), "code"))

	// 181 days later the refresh token is gone too.
	mu.Lock()
	currentTime = now.Add(181 * 24 * time.Hour)
	mu.Unlock()

	_, err := cache.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.False(t, cache.Authenticated())
}

func TestTokenCache_ClearTokens(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(grantJSON("access", "refresh"))
		}),
	)
	defer srv.Close()

	cache := newCache(t, srv.URL)

	require.NoError(t, cache.Authorize(context.Background(), "code"))
	assert.True(t, cache.Authenticated())

	cache.ClearTokens()
	assert.False(t, cache.Authenticated())

	_, err := cache.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestTokenCache_ConcurrentRefresh(t *testing.T) {
	t.Parallel()

	var grants atomic.Int32
	now := time.Now()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			grants.Add(1)
			time.Sleep(10 * time.Millisecond)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(grantJSON("access", "refresh"))
		}),
	)
	defer srv.Close()

	currentTime := now
	var mu sync.Mutex

	cache := newCache(t, srv.URL, meli.WithNowFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return currentTime
	}))

	require.NoError(t, cache.Authorize(context.Background(), "code"))
	assert.Equal(t, int32(1), grants.Load())

	// Expire the access token, then hammer Token concurrently.
	mu.Lock()
	currentTime = now.Add(22000 * time.Second)
	mu.Unlock()

	const goroutines = 10

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			token, err := cache.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "access", token)
		}()
	}

	wg.Wait()

	// The mutex serializes the refresh, so exactly one extra grant.
	assert.Equal(t, int32(2), grants.Load())
}

// memGrantStore is an in-memory GrantStore for testing persistence.
type memGrantStore struct {
	mu    sync.Mutex
	grant *meli.Grant
	saves int
	err   error
}

func (m *memGrantStore) SaveGrant(_ context.Context, g meli.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.grant = &g
	m.saves++
	return nil
}

func (m *memGrantStore) LoadGrant(_ context.Context) (*meli.Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.grant, nil
}

func (m *memGrantStore) DeleteGrant(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grant = nil
	return nil
}

func TestTokenCache_PersistsGrantOnAuthorize(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(grantJSON("APP_USR-access", "TG-refresh"))
	}))
	defer srv.Close()

	grants := &memGrantStore{}
	cache := newCache(t, srv.URL, meli.WithGrantStore(grants))

	require.NoError(t, cache.Authorize(context.Background(), "code"))

	require.NotNil(t, grants.grant)
	assert.Equal(t, "APP_USR-access", grants.grant.AccessToken)
	assert.Equal(t, "TG-refresh", grants.grant.RefreshToken)
	assert.Equal(t, 1, grants.saves)
}

func TestTokenCache_Restore(t *testing.T) {
	t.Parallel()

	now := time.Now()
	grants := &memGrantStore{
		grant: &meli.Grant{
			AccessToken:   "APP_USR-restored",
			RefreshToken:  "TG-restored",
			AccessExpiry:  now.Add(time.Hour),
			RefreshExpiry: now.Add(90 * 24 * time.Hour),
		},
	}

	cache := newCache(t, "http://unused.invalid", meli.WithGrantStore(grants))
	require.NoError(t, cache.Restore(context.Background()))

	assert.True(t, cache.Authenticated())
	token, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "APP_USR-restored", token)
}

func TestTokenCache_RestoreSkipsExpiredGrant(t *testing.T) {
	t.Parallel()

	now := time.Now()
	grants := &memGrantStore{
		grant: &meli.Grant{
			AccessToken:   "APP_USR-stale",
			RefreshToken:  "TG-stale",
			AccessExpiry:  now.Add(-200 * 24 * time.Hour),
			RefreshExpiry: now.Add(-20 * 24 * time.Hour),
		},
	}

	cache := newCache(t, "http://unused.invalid", meli.WithGrantStore(grants))
	require.NoError(t, cache.Restore(context.Background()))

	assert.False(t, cache.Authenticated())
	_, err := cache.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestTokenCache_RestoreWithEmptyStore(t *testing.T) {
	t.Parallel()

	cache := newCache(t, "http://unused.invalid", meli.WithGrantStore(&memGrantStore{}))
	require.NoError(t, cache.Restore(context.Background()))
	assert.False(t, cache.Authenticated())
}

func TestTokenCache_PersistenceFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(grantJSON("APP_USR-access", "TG-refresh"))
	}))
	defer srv.Close()

	grants := &memGrantStore{err: fmt.Errorf("connection refused")}
	cache := newCache(t, srv.URL, meli.WithGrantStore(grants))

	// Authorization succeeds even when the store is down.
	require.NoError(t, cache.Authorize(context.Background(), "code"))
	assert.True(t, cache.Authenticated())
}

func TestTokenCache_ClearTokensDropsPersistedGrant(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(grantJSON("APP_USR-access", "TG-refresh"))
	}))
	defer srv.Close()

	grants := &memGrantStore{}
	cache := newCache(t, srv.URL, meli.WithGrantStore(grants))

	require.NoError(t, cache.Authorize(context.Background(), "code"))
	require.NotNil(t, grants.grant)

	cache.ClearTokens()
	assert.Nil(t, grants.grant)
}
