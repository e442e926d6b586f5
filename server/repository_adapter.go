package server

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/umputun/listfeed/pkg/domain"
	"github.com/umputun/listfeed/pkg/repository"
)

// RepositoryAdapter adapts repositories to server.Database interface.
// Entry calls are dispatched by the feed kind to the matching typed repository.
type RepositoryAdapter struct {
	repos   *repository.Repositories
	entries map[domain.Kind]textEntries
}

// textEntries is an entry repository seen through the canonical text form of its values
type textEntries interface {
	list(ctx context.Context, feedID int64, cursor domain.Cursor, filter domain.EntryFilter) ([]domain.Entry[string], error)
	get(ctx context.Context, id int64) (*domain.Entry[string], error)
	insert(ctx context.Context, feedID int64, value, description string, validUntil *time.Time) (*domain.Entry[string], error)
	update(ctx context.Context, entry *domain.Entry[string]) error
	remove(ctx context.Context, id int64) error
}

// NewRepositoryAdapter creates a new repository adapter
func NewRepositoryAdapter(repos *repository.Repositories) *RepositoryAdapter {
	return &RepositoryAdapter{
		repos: repos,
		entries: map[domain.Kind]textEntries{
			domain.KindIP:     typedEntries[netip.Prefix]{repo: repos.IP},
			domain.KindURL:    typedEntries[string]{repo: repos.URL},
			domain.KindDomain: typedEntries[string]{repo: repos.Domain},
		},
	}
}

// ListFeeds returns all feeds, or one page of them
func (r *RepositoryAdapter) ListFeeds(ctx context.Context, page *domain.Page) ([]*domain.Feed, error) {
	return r.repos.Feed.ListFeeds(ctx, page)
}

// GetFeed returns a feed by id
func (r *RepositoryAdapter) GetFeed(ctx context.Context, id int64) (*domain.Feed, error) {
	return r.repos.Feed.GetFeed(ctx, id)
}

// CreateFeed registers a new feed
func (r *RepositoryAdapter) CreateFeed(ctx context.Context, name string, kind domain.Kind, description string) (*domain.Feed, error) {
	return r.repos.Feed.CreateFeed(ctx, name, kind, description)
}

// UpdateFeed changes name and description of a feed
func (r *RepositoryAdapter) UpdateFeed(ctx context.Context, feed *domain.Feed) error {
	return r.repos.Feed.UpdateFeed(ctx, feed)
}

// DeleteFeed removes a feed with its entries
func (r *RepositoryAdapter) DeleteFeed(ctx context.Context, id int64) error {
	return r.repos.Feed.DeleteFeed(ctx, id)
}

// ListEntries returns a cursor window of the feed entries
func (r *RepositoryAdapter) ListEntries(ctx context.Context, feed *domain.Feed, cursor domain.Cursor,
	filter domain.EntryFilter) ([]domain.Entry[string], error) {
	store, err := r.store(feed)
	if err != nil {
		return nil, err
	}
	return store.list(ctx, feed.ID, cursor, filter)
}

// GetEntry returns an entry of the feed, entries of other feeds are reported as not found
func (r *RepositoryAdapter) GetEntry(ctx context.Context, feed *domain.Feed, id int64) (*domain.Entry[string], error) {
	store, err := r.store(feed)
	if err != nil {
		return nil, err
	}
	e, err := store.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.FeedID != feed.ID {
		return nil, fmt.Errorf("entry %d of feed %d: %w", id, feed.ID, domain.ErrNotFound)
	}
	return e, nil
}

// CreateEntry parses the value according to the feed kind and adds the entry
func (r *RepositoryAdapter) CreateEntry(ctx context.Context, feed *domain.Feed, value, description string,
	validUntil *time.Time) (*domain.Entry[string], error) {
	store, err := r.store(feed)
	if err != nil {
		return nil, err
	}
	return store.insert(ctx, feed.ID, value, description, validUntil)
}

// UpdateEntry changes enabled flag, description and expiry of an entry of the feed
func (r *RepositoryAdapter) UpdateEntry(ctx context.Context, feed *domain.Feed, entry *domain.Entry[string]) error {
	if _, err := r.GetEntry(ctx, feed, entry.ID); err != nil {
		return err
	}
	return r.entries[feed.Kind].update(ctx, entry)
}

// DeleteEntry removes an entry of the feed
func (r *RepositoryAdapter) DeleteEntry(ctx context.Context, feed *domain.Feed, id int64) error {
	if _, err := r.GetEntry(ctx, feed, id); err != nil {
		return err
	}
	return r.entries[feed.Kind].remove(ctx, id)
}

// Ping checks database connectivity
func (r *RepositoryAdapter) Ping(ctx context.Context) error {
	return r.repos.Ping(ctx)
}

func (r *RepositoryAdapter) store(feed *domain.Feed) (textEntries, error) {
	store, ok := r.entries[feed.Kind]
	if !ok {
		return nil, fmt.Errorf("feed %d: %w: unsupported kind %q", feed.ID, domain.ErrValidation, feed.Kind)
	}
	return store, nil
}

// typedEntries converts between typed entries of a repository and their text form
type typedEntries[V any] struct {
	repo *repository.EntryRepository[V]
}

func (t typedEntries[V]) list(ctx context.Context, feedID int64, cursor domain.Cursor,
	filter domain.EntryFilter) ([]domain.Entry[string], error) {
	entries, err := t.repo.ListSome(ctx, feedID, cursor, filter)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Entry[string], 0, len(entries))
	for i := range entries {
		res = append(res, t.toText(&entries[i]))
	}
	return res, nil
}

func (t typedEntries[V]) get(ctx context.Context, id int64) (*domain.Entry[string], error) {
	e, err := t.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := t.toText(e)
	return &res, nil
}

func (t typedEntries[V]) insert(ctx context.Context, feedID int64, value, description string,
	validUntil *time.Time) (*domain.Entry[string], error) {
	v, err := t.repo.Kind().Parse(value)
	if err != nil {
		return nil, err
	}
	e, err := t.repo.Insert(ctx, feedID, v, description, validUntil)
	if err != nil {
		return nil, err
	}
	res := t.toText(e)
	return &res, nil
}

// update keeps the stored value, only mutable fields are taken from the entry
func (t typedEntries[V]) update(ctx context.Context, entry *domain.Entry[string]) error {
	typed := &domain.Entry[V]{
		ID:          entry.ID,
		Enabled:     entry.Enabled,
		Description: entry.Description,
		ValidUntil:  entry.ValidUntil,
	}
	if err := t.repo.Update(ctx, typed); err != nil {
		return err
	}
	entry.FeedID, entry.Description, entry.ValidUntil = typed.FeedID, typed.Description, typed.ValidUntil
	return nil
}

func (t typedEntries[V]) remove(ctx context.Context, id int64) error {
	return t.repo.Delete(ctx, id)
}

func (t typedEntries[V]) toText(e *domain.Entry[V]) domain.Entry[string] {
	return domain.Entry[string]{
		ID:          e.ID,
		FeedID:      e.FeedID,
		Value:       t.repo.Kind().Format(e.Value),
		Enabled:     e.Enabled,
		Description: e.Description,
		ValidUntil:  e.ValidUntil,
	}
}
