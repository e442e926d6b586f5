package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/listfeed/pkg/domain"
)

// FeedRepository handles feed metadata and the memoized body digest
type FeedRepository struct {
	db        *sqlx.DB
	sanitizer *bluemonday.Policy
}

// feedSQL represents a feed for SQL operations
type feedSQL struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Kind        string `db:"kind"`
	Digest      []byte `db:"digest"`
}

const feedColumns = "id, name, description, kind, digest"

// NewFeedRepository creates a new feed repository
func NewFeedRepository(database *sqlx.DB) *FeedRepository {
	return &FeedRepository{db: database, sanitizer: bluemonday.StrictPolicy()}
}

// CreateFeed inserts a new feed with an empty digest. Feed names are unique.
func (r *FeedRepository) CreateFeed(ctx context.Context, name string, kind domain.Kind, description string) (*domain.Feed, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create feed: %w: empty name", domain.ErrValidation)
	}
	kind, err := domain.ParseKind(string(kind))
	if err != nil {
		return nil, fmt.Errorf("create feed: %w", err)
	}

	feed := &domain.Feed{Name: name, Kind: kind, Description: r.sanitize(description)}
	query := r.db.Rebind(`INSERT INTO feeds (name, description, kind) VALUES (?, ?, ?) RETURNING id`)
	if err := r.db.GetContext(ctx, &feed.ID, query, feed.Name, feed.Description, string(feed.Kind)); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create feed %q: %w", name, domain.ErrConflict)
		}
		return nil, storageErr("create feed", err)
	}
	return feed, nil
}

// GetFeed retrieves a feed by ID
func (r *FeedRepository) GetFeed(ctx context.Context, id int64) (*domain.Feed, error) {
	var row feedSQL
	query := r.db.Rebind("SELECT " + feedColumns + " FROM feeds WHERE id = ?")
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get feed %d: %w", id, domain.ErrNotFound)
		}
		return nil, storageErr("get feed", err)
	}
	return r.toDomainFeed(&row), nil
}

// GetFeedByName retrieves a feed by its unique name
func (r *FeedRepository) GetFeedByName(ctx context.Context, name string) (*domain.Feed, error) {
	var row feedSQL
	query := r.db.Rebind("SELECT " + feedColumns + " FROM feeds WHERE name = ?")
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get feed %q: %w", name, domain.ErrNotFound)
		}
		return nil, storageErr("get feed by name", err)
	}
	return r.toDomainFeed(&row), nil
}

// ListFeeds returns feeds ordered by id. A nil page returns all feeds.
func (r *FeedRepository) ListFeeds(ctx context.Context, page *domain.Page) ([]*domain.Feed, error) {
	query := "SELECT " + feedColumns + " FROM feeds ORDER BY id"
	var args []any
	if page != nil {
		if page.Size <= 0 || page.Pos < 0 || page.Pos > math.MaxInt32/page.Size {
			return nil, fmt.Errorf("list feeds: %w: invalid page %d of size %d", domain.ErrValidation, page.Pos, page.Size)
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Size, page.Offset())
	}

	var rows []feedSQL
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, storageErr("list feeds", err)
	}

	feeds := make([]*domain.Feed, len(rows))
	for i := range rows {
		feeds[i] = r.toDomainFeed(&rows[i])
	}
	return feeds, nil
}

// PersistDigest stores the digest of the feed's rendered body, overwriting any previous value
func (r *FeedRepository) PersistDigest(ctx context.Context, feedID int64, digest []byte) error {
	var value any = digest
	if len(digest) == 0 {
		value = nil
	}
	return r.setDigest(ctx, "persist digest", feedID, value)
}

// InvalidateDigest clears the feed's digest, so the next render computes it again
func (r *FeedRepository) InvalidateDigest(ctx context.Context, feedID int64) error {
	return r.setDigest(ctx, "invalidate digest", feedID, nil)
}

func (r *FeedRepository) setDigest(ctx context.Context, op string, feedID int64, value any) error {
	query := r.db.Rebind("UPDATE feeds SET digest = ? WHERE id = ?")
	var affected int64
	err := retryOnLock(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, value, feedID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return storageErr(op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s of feed %d: %w", op, feedID, domain.ErrNotFound)
	}
	return nil
}

// UpdateFeed replaces name and description of an existing feed. Kind and digest are not changed.
func (r *FeedRepository) UpdateFeed(ctx context.Context, feed *domain.Feed) error {
	feed.Name = strings.TrimSpace(feed.Name)
	if feed.Name == "" {
		return fmt.Errorf("update feed: %w: empty name", domain.ErrValidation)
	}
	feed.Description = r.sanitize(feed.Description)

	query := r.db.Rebind("UPDATE feeds SET name = ?, description = ? WHERE id = ?")
	res, err := r.db.ExecContext(ctx, query, feed.Name, feed.Description, feed.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update feed %d to name %q: %w", feed.ID, feed.Name, domain.ErrConflict)
		}
		return storageErr("update feed", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return storageErr("update feed", err)
	} else if n == 0 {
		return fmt.Errorf("update feed %d: %w", feed.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteFeed removes a feed and all its entries
func (r *FeedRepository) DeleteFeed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM feeds WHERE id = ?"), id)
	if err != nil {
		return storageErr("delete feed", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return storageErr("delete feed", err)
	} else if n == 0 {
		return fmt.Errorf("delete feed %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *FeedRepository) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.sanitizer.Sanitize(s)))
}

// toDomainFeed converts feedSQL to domain.Feed
func (r *FeedRepository) toDomainFeed(row *feedSQL) *domain.Feed {
	return &domain.Feed{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Kind:        domain.Kind(row.Kind),
		Digest:      row.Digest,
	}
}
