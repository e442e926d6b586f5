package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"iter"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/listfeed/pkg/domain"
)

// EntryRepository handles entries of one kind. The same implementation serves
// every kind, the descriptor supplies table and value codec.
type EntryRepository[V any] struct {
	db        *sqlx.DB
	kind      Kind[V]
	flavor    sqlbuilder.Flavor
	stmt      entryStatements
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// entrySQL is the row representation shared by all entry tables
type entrySQL struct {
	ID          int64        `db:"id"`
	FeedID      int64        `db:"feed_id"`
	Value       string       `db:"value"`
	Enabled     bool         `db:"enabled"`
	Description string       `db:"description"`
	ValidUntil  sql.NullTime `db:"valid_until"`
}

// NewEntryRepository creates a repository for the given kind. Every mutation clears the
// digest of the owning feed in the same transaction.
func NewEntryRepository[V any](db *sqlx.DB, flavor sqlbuilder.Flavor, kind Kind[V]) *EntryRepository[V] {
	return &EntryRepository[V]{
		db:        db,
		kind:      kind,
		flavor:    flavor,
		stmt:      newEntryStatements(kind.table, db.Rebind),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// Kind returns the descriptor of this repository
func (r *EntryRepository[V]) Kind() Kind[V] {
	return r.kind
}

// Format returns the canonical text of a value, as stored and rendered
func (r *EntryRepository[V]) Format(v V) string {
	return r.kind.format(v)
}

// Insert adds an enabled entry to the feed. The feed must exist and be of this repository's kind.
func (r *EntryRepository[V]) Insert(ctx context.Context, feedID int64, value V, description string,
	validUntil *time.Time) (*domain.Entry[V], error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin insert entry", err)
	}
	defer func() { _ = tx.Rollback() }()

	var feedKind string
	if err := tx.GetContext(ctx, &feedKind, r.stmt.feedKind, feedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("insert %s entry: %w: feed %d does not exist", r.kind.kind, domain.ErrStorage, feedID)
		}
		return nil, storageErr("get feed kind", err)
	}
	if domain.Kind(feedKind) != r.kind.kind {
		return nil, fmt.Errorf("insert %s entry: %w: feed %d is of kind %s", r.kind.kind, domain.ErrStorage, feedID, feedKind)
	}

	entry := &domain.Entry[V]{
		FeedID:      feedID,
		Value:       value,
		Enabled:     true,
		Description: r.sanitize(description),
		ValidUntil:  utcPtr(validUntil),
	}
	err = tx.GetContext(ctx, &entry.ID, r.stmt.insert,
		feedID, r.kind.format(value), entry.Enabled, entry.Description, nullTime(entry.ValidUntil))
	if err != nil {
		return nil, storageErr("insert "+r.kind.kind.String()+" entry", err)
	}
	if err := r.clearDigest(ctx, tx, feedID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit insert entry", err)
	}
	return entry, nil
}

// StreamActiveValues yields the values of the feed's active entries in ascending id order.
// Rows are read from the cursor one at a time and the cursor is released when the sequence
// ends, fails, or the consumer stops. A failure is yielded once as domain.ErrFetch.
func (r *EntryRepository[V]) StreamActiveValues(ctx context.Context, feedID int64) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		var zero V
		rows, err := r.db.QueryContext(ctx, r.stmt.selectActive, feedID, r.now().UTC())
		if err != nil {
			yield(zero, fetchErr("query active "+r.kind.kind.String()+" entries", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var raw string
			if err := rows.Scan(&raw); err != nil {
				yield(zero, fetchErr("scan entry value", err))
				return
			}
			v, err := r.kind.parse(raw)
			if err != nil {
				yield(zero, fetchErr("decode entry value", err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, fetchErr("iterate active entries", err))
		}
	}
}

// ListSome returns up to cursor.Limit entries of the feed with ids greater than cursor.After,
// in ascending id order, narrowed by the filter
func (r *EntryRepository[V]) ListSome(ctx context.Context, feedID int64, cursor domain.Cursor,
	filter domain.EntryFilter) ([]domain.Entry[V], error) {
	if cursor.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, cursor.Limit)
	}

	sb := r.flavor.NewSelectBuilder()
	sb.Select("id", "feed_id", "value", "enabled", "description", "valid_until").From(r.kind.table)
	sb.Where(sb.Equal("feed_id", feedID), sb.GreaterThan("id", cursor.After))
	if filter.Enabled != nil {
		sb.Where(sb.Equal("enabled", *filter.Enabled))
	}
	switch filter.Validity {
	case domain.ValidityNoExpiry:
		sb.Where(sb.IsNull("valid_until"))
	case domain.ValidityNotBefore:
		sb.Where(sb.IsNotNull("valid_until"), sb.GreaterEqualThan("valid_until", filter.At.UTC()))
	}
	sb.OrderBy("id").Asc().Limit(cursor.Limit)
	query, args := sb.Build()

	var rows []entrySQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fetchErr("list "+r.kind.kind.String()+" entries", err)
	}

	entries := make([]domain.Entry[V], 0, len(rows))
	for i := range rows {
		e, err := r.toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

// Get returns a single entry by id
func (r *EntryRepository[V]) Get(ctx context.Context, id int64) (*domain.Entry[V], error) {
	var row entrySQL
	if err := r.db.GetContext(ctx, &row, r.stmt.get, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get %s entry %d: %w", r.kind.kind, id, domain.ErrNotFound)
		}
		return nil, storageErr("get "+r.kind.kind.String()+" entry", err)
	}
	return r.toDomain(&row)
}

// Update replaces enabled flag, description and expiry of an existing entry.
// The value and owning feed are immutable.
func (r *EntryRepository[V]) Update(ctx context.Context, entry *domain.Entry[V]) error {
	entry.Description = r.sanitize(entry.Description)
	entry.ValidUntil = utcPtr(entry.ValidUntil)

	feedID, err := r.mutate(ctx, "update", entry.ID, func(tx *sqlx.Tx, feedID *int64) error {
		return tx.GetContext(ctx, feedID, r.stmt.update,
			entry.Enabled, entry.Description, nullTime(entry.ValidUntil), entry.ID)
	})
	if err != nil {
		return err
	}
	entry.FeedID = feedID
	return nil
}

// Delete removes an entry by id
func (r *EntryRepository[V]) Delete(ctx context.Context, id int64) error {
	_, err := r.mutate(ctx, "delete", id, func(tx *sqlx.Tx, feedID *int64) error {
		return tx.GetContext(ctx, feedID, r.stmt.delete, id)
	})
	return err
}

// mutate runs a statement returning the owning feed id and clears that feed's digest
// in the same transaction
func (r *EntryRepository[V]) mutate(ctx context.Context, op string, id int64, exec func(*sqlx.Tx, *int64) error) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin "+op+" entry", err)
	}
	defer func() { _ = tx.Rollback() }()

	var feedID int64
	if err := exec(tx, &feedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s %s entry %d: %w", op, r.kind.kind, id, domain.ErrNotFound)
		}
		return 0, storageErr(op+" "+r.kind.kind.String()+" entry", err)
	}
	if err := r.clearDigest(ctx, tx, feedID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit "+op+" entry", err)
	}
	return feedID, nil
}

// FeedsExpiredBetween returns ids of feeds owning enabled entries with from <= valid_until < to
func (r *EntryRepository[V]) FeedsExpiredBetween(ctx context.Context, from, to time.Time) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, r.stmt.expiredFeeds, from.UTC(), to.UTC()); err != nil {
		return nil, fetchErr("get feeds with expired "+r.kind.kind.String()+" entries", err)
	}
	return ids, nil
}

// clearDigest resets the memoized digest of the feed as part of the entry mutation,
// so a committed change is never served behind the old digest
func (r *EntryRepository[V]) clearDigest(ctx context.Context, tx *sqlx.Tx, feedID int64) error {
	if _, err := tx.ExecContext(ctx, r.stmt.clearDigest, feedID); err != nil {
		return storageErr(fmt.Sprintf("clear digest of feed %d", feedID), err)
	}
	return nil
}

// sanitize strips markup from free text, keeping it plain (entities decoded)
func (r *EntryRepository[V]) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.sanitizer.Sanitize(s)))
}

// toDomain converts a row into a domain entry, decoding the stored value
func (r *EntryRepository[V]) toDomain(row *entrySQL) (*domain.Entry[V], error) {
	v, err := r.kind.parse(row.Value)
	if err != nil {
		return nil, fmt.Errorf("decode %s entry %d: %w: %w", r.kind.kind, row.ID, domain.ErrStorage, err)
	}
	e := &domain.Entry[V]{
		ID:          row.ID,
		FeedID:      row.FeedID,
		Value:       v,
		Enabled:     row.Enabled,
		Description: row.Description,
	}
	if row.ValidUntil.Valid {
		t := row.ValidUntil.Time.UTC()
		e.ValidUntil = &t
	}
	return e, nil
}

func fetchErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrFetch, err)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
