package feed

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"iter"
	"net/netip"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/listfeed/pkg/domain"
)

//go:generate moq -out mocks/feed_store.go -pkg mocks -skip-ensure -fmt goimports . FeedStore

// FeedStore provides feed lookup and digest persistence
type FeedStore interface {
	GetFeedByName(ctx context.Context, name string) (*domain.Feed, error)
	PersistDigest(ctx context.Context, feedID int64, digest []byte) error
}

// ValueSource streams the active values of a feed and knows their canonical text
type ValueSource[V any] interface {
	StreamActiveValues(ctx context.Context, feedID int64) iter.Seq2[V, error]
	Format(v V) string
}

// Params defines renderer dependencies
type Params struct {
	Feeds          FeedStore
	IP             ValueSource[netip.Prefix]
	URL            ValueSource[string]
	Domain         ValueSource[string]
	PersistTimeout time.Duration // limit for the background digest write, 5s if zero
}

// Renderer produces the plaintext body of a feed and keeps its digest memoized
type Renderer struct {
	Params
	wg sync.WaitGroup
}

// Rendered is the outcome of a successful render
type Rendered struct {
	Feed   *domain.Feed
	Body   string
	Digest []byte
}

// ETag returns the strong entity tag of the body. It is hashed from the body itself, a memoized
// digest written by a render racing an entry change may not describe this body.
func (r *Rendered) ETag() string {
	return `"` + hex.EncodeToString(Digest(r.Body)) + `"`
}

// NewRenderer makes a new Renderer
func NewRenderer(params Params) *Renderer {
	if params.PersistTimeout <= 0 {
		params.PersistTimeout = 5 * time.Second
	}
	return &Renderer{Params: params}
}

// Render builds the body of the named feed from its active entries. A missing feed
// returns an error matching domain.ErrNotFound. If the feed has no digest yet, the digest
// of the body is computed and persisted in background; a persistence failure is only logged.
func (r *Renderer) Render(ctx context.Context, name string) (*Rendered, error) {
	lgr.Printf("[DEBUG] fetch feed %s", name)
	feed, err := r.Feeds.GetFeedByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get feed %q: %w", name, err)
	}

	var body string
	switch feed.Kind {
	case domain.KindIP:
		body, err = assembleFrom(ctx, r.IP, feed.ID)
	case domain.KindURL:
		body, err = assembleFrom(ctx, r.URL, feed.ID)
	case domain.KindDomain:
		body, err = assembleFrom(ctx, r.Domain, feed.ID)
	default:
		return nil, fmt.Errorf("render feed %q: %w: unsupported kind %q", name, domain.ErrValidation, feed.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render feed %q: %w", name, err)
	}

	if !feed.HasDigest() {
		feed.Digest = Digest(body)
		r.persistDigest(ctx, feed)
	}

	return &Rendered{Feed: feed, Body: body, Digest: feed.Digest}, nil
}

// Wait blocks until all background digest writes are finished
func (r *Renderer) Wait() {
	r.wg.Wait()
}

// persistDigest writes the digest detached from the request, so a client disconnect
// doesn't abort it
func (r *Renderer) persistDigest(ctx context.Context, feed *domain.Feed) {
	feedID, name, digest := feed.ID, feed.Name, feed.Digest
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.PersistTimeout)
		defer cancel()
		if err := r.Feeds.PersistDigest(pctx, feedID, digest); err != nil {
			lgr.Printf("[WARN] failed to persist digest of feed %s: %v", name, err)
			return
		}
		lgr.Printf("[DEBUG] persisted digest %x of feed %s", digest, name)
	}()
}

func assembleFrom[V any](ctx context.Context, src ValueSource[V], feedID int64) (string, error) {
	return Assemble(src.StreamActiveValues(ctx, feedID), src.Format)
}
