package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPoolSize = 5

// PostgresStore persists OAuth grants using pgxpool. It needs a live
// Postgres and is covered by the integration-tagged tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.pool)
}

// SaveGrant inserts or updates the grant for a marketplace.
func (s *PostgresStore) SaveGrant(ctx context.Context, g *OAuthGrant) error {
	args := pgx.NamedArgs{
		"marketplace":    g.Marketplace,
		"access_token":   g.AccessToken,
		"refresh_token":  g.RefreshToken,
		"access_expiry":  g.AccessExpiry,
		"refresh_expiry": g.RefreshExpiry,
	}

	if err := s.pool.QueryRow(ctx, queryUpsertGrant, args).Scan(&g.UpdatedAt); err != nil {
		return fmt.Errorf("saving grant for %s: %w", g.Marketplace, err)
	}
	return nil
}

// GetGrant retrieves the grant for a marketplace, or ErrNotFound.
func (s *PostgresStore) GetGrant(ctx context.Context, marketplace string) (*OAuthGrant, error) {
	g := &OAuthGrant{}
	err := s.pool.QueryRow(ctx, queryGetGrant, marketplace).Scan(
		&g.Marketplace,
		&g.AccessToken,
		&g.RefreshToken,
		&g.AccessExpiry,
		&g.RefreshExpiry,
		&g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting grant for %s: %w", marketplace, err)
	}
	return g, nil
}

// DeleteGrant removes the grant for a marketplace. Deleting a missing
// grant is not an error.
func (s *PostgresStore) DeleteGrant(ctx context.Context, marketplace string) error {
	if _, err := s.pool.Exec(ctx, queryDeleteGrant, marketplace); err != nil {
		return fmt.Errorf("deleting grant for %s: %w", marketplace, err)
	}
	return nil
}
