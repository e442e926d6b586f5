package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/listfeed/pkg/domain"
)

//go:generate moq -out mocks/expiry_source.go -pkg mocks -skip-ensure -fmt goimports . ExpirySource
//go:generate moq -out mocks/digest_invalidator.go -pkg mocks -skip-ensure -fmt goimports . DigestInvalidator

// Scheduler periodically clears digests of feeds whose entries expired since the previous sweep.
// A feed's memoized digest stays stale for at most one interval after an entry expires.
type Scheduler struct {
	Params

	now       func() time.Time
	lastSweep time.Time // zero until the first sweep, so the first one covers everything expired so far
	mu        sync.Mutex
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

// ExpirySource reports feeds owning entries that expired within [from, to)
type ExpirySource interface {
	FeedsExpiredBetween(ctx context.Context, from, to time.Time) ([]int64, error)
}

// DigestInvalidator clears the memoized digest of a feed
type DigestInvalidator interface {
	InvalidateDigest(ctx context.Context, feedID int64) error
}

// Params defines scheduler dependencies and settings
type Params struct {
	Sources    []ExpirySource // one per entry kind
	Digests    DigestInvalidator
	Interval   time.Duration // sweep interval, 1m if zero
	MaxWorkers int           // concurrent invalidations, 4 if zero
}

// NewScheduler creates a new scheduler instance
func NewScheduler(params Params) *Scheduler {
	if params.Interval <= 0 {
		params.Interval = time.Minute
	}
	if params.MaxWorkers <= 0 {
		params.MaxWorkers = 4
	}
	return &Scheduler{Params: params, now: time.Now}
}

// Start begins the sweep worker
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.sweepWorker(ctx)

	lgr.Printf("[INFO] scheduler started with digest sweep interval %v", s.Interval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// sweepWorker runs a sweep on start and then on every tick
func (s *Scheduler) sweepWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	n, err := s.SweepNow(ctx)
	if err != nil {
		lgr.Printf("[WARN] digest sweep failed: %v", err)
		return
	}
	if n > 0 {
		lgr.Printf("[INFO] invalidated digests of %d feeds with expired entries", n)
	}
}

// SweepNow invalidates digests of feeds with entries expired since the last successful sweep
// and returns the number of affected feeds. On failure the window is kept, so the next sweep
// covers it again.
func (s *Scheduler) SweepNow(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to := s.lastSweep, s.now().UTC()
	feedIDs, err := s.expiredFeeds(ctx, from, to)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.MaxWorkers)
	for _, id := range feedIDs {
		g.Go(func() error {
			err := s.Digests.InvalidateDigest(gctx, id)
			if err != nil && !errors.Is(err, domain.ErrNotFound) { // feed deleted meanwhile
				return fmt.Errorf("invalidate digest of feed %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	s.lastSweep = to
	lgr.Printf("[DEBUG] digest sweep [%s, %s) done, %d feeds", from.Format(time.RFC3339), to.Format(time.RFC3339), len(feedIDs))
	return len(feedIDs), nil
}

// expiredFeeds queries all sources concurrently and merges their feed ids
func (s *Scheduler) expiredFeeds(ctx context.Context, from, to time.Time) ([]int64, error) {
	var mu sync.Mutex
	seen := map[int64]struct{}{}

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range s.Sources {
		g.Go(func() error {
			ids, err := src.FeedsExpiredBetween(gctx, from, to)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, id := range ids {
				seen[id] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get feeds with expired entries: %w", err)
	}

	res := make([]int64, 0, len(seen))
	for id := range seen {
		res = append(res, id)
	}
	slices.Sort(res)
	return res, nil
}
