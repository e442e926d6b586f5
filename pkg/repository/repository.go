package repository

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/jmoiron/sqlx"
)

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories contains all repository instances
type Repositories struct {
	Feed   *FeedRepository
	IP     *EntryRepository[netip.Prefix]
	URL    *EntryRepository[string]
	Domain *EntryRepository[string]
	DB     *sqlx.DB

	dialect dialect
}

// NewRepositories opens the database, applies migrations and creates all repositories
// with a shared connection pool. A postgres:// DSN selects PostgreSQL, anything else SQLite.
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	db, d, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	feeds := NewFeedRepository(db)
	repos := &Repositories{
		Feed:    feeds,
		IP:      NewEntryRepository(db, d.flavor, IPKind),
		URL:     NewEntryRepository(db, d.flavor, URLKind),
		Domain:  NewEntryRepository(db, d.flavor, DomainKind),
		DB:      db,
		dialect: d,
	}
	return repos, nil
}

// Dialect returns the name of the storage backend in use, "sqlite" or "postgres"
func (r *Repositories) Dialect() string {
	return r.dialect.name
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
