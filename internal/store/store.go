// Package store persists OAuth grants in PostgreSQL so marketplace
// authorization survives restarts. The aggregation pipeline itself is
// stateless; only tokens are durable.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no grant exists for a marketplace.
var ErrNotFound = errors.New("grant not found")

// OAuthGrant is a persisted OAuth token pair for one marketplace.
type OAuthGrant struct {
	Marketplace   string
	AccessToken   string
	RefreshToken  string
	AccessExpiry  time.Time
	RefreshExpiry time.Time
	UpdatedAt     time.Time
}
