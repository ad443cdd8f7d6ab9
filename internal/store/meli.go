package store

import (
	"context"
	"errors"

	"github.com/mfreitas/promo-radar/internal/meli"
	domain "github.com/mfreitas/promo-radar/pkg/types"
)

// MeliGrantStore adapts PostgresStore to the token cache's GrantStore.
type MeliGrantStore struct {
	store *PostgresStore
}

// NewMeliGrantStore creates a grant store scoped to Mercado Livre.
func NewMeliGrantStore(s *PostgresStore) *MeliGrantStore {
	return &MeliGrantStore{store: s}
}

// SaveGrant persists the grant.
func (m *MeliGrantStore) SaveGrant(ctx context.Context, g meli.Grant) error {
	return m.store.SaveGrant(ctx, &OAuthGrant{
		Marketplace:   string(domain.MarketplaceMeli),
		AccessToken:   g.AccessToken,
		RefreshToken:  g.RefreshToken,
		AccessExpiry:  g.AccessExpiry,
		RefreshExpiry: g.RefreshExpiry,
	})
}

// LoadGrant returns the persisted grant, or nil when none is stored.
func (m *MeliGrantStore) LoadGrant(ctx context.Context) (*meli.Grant, error) {
	g, err := m.store.GetGrant(ctx, string(domain.MarketplaceMeli))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meli.Grant{
		AccessToken:   g.AccessToken,
		RefreshToken:  g.RefreshToken,
		AccessExpiry:  g.AccessExpiry,
		RefreshExpiry: g.RefreshExpiry,
	}, nil
}

// DeleteGrant removes the persisted grant.
func (m *MeliGrantStore) DeleteGrant(ctx context.Context) error {
	return m.store.DeleteGrant(ctx, string(domain.MarketplaceMeli))
}
