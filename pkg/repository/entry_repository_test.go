package repository

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/listfeed/pkg/domain"
)

func collect[V any](t *testing.T, r *EntryRepository[V], feedID int64) []V {
	t.Helper()
	res := []V{}
	for v, err := range r.StreamActiveValues(context.Background(), feedID) {
		require.NoError(t, err)
		res = append(res, v)
	}
	return res
}

func TestEntryRepository_StreamActiveValues(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	feed, err := repos.Feed.CreateFeed(ctx, "blocklist-a", domain.KindIP, "")
	require.NoError(t, err)
	other, err := repos.Feed.CreateFeed(ctx, "blocklist-b", domain.KindIP, "")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repos.IP.now = func() time.Time { return now }
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	ins := func(feedID int64, s string, until *time.Time) *domain.Entry[netip.Prefix] {
		v, err := IPKind.Parse(s)
		require.NoError(t, err)
		e, err := repos.IP.Insert(ctx, feedID, v, "", until)
		require.NoError(t, err)
		return e
	}

	ins(feed.ID, "10.0.0.0/24", nil)
	ins(feed.ID, "10.0.1.0/24", &past)
	disabled := ins(feed.ID, "10.0.2.0/24", nil)
	ins(feed.ID, "192.168.1.7", &future)
	ins(feed.ID, "10.0.3.0/24", &now) // expiring exactly now is still active
	ins(other.ID, "172.16.0.0/12", nil)

	disabled.Enabled = false
	require.NoError(t, repos.IP.Update(ctx, disabled))

	got := collect(t, repos.IP, feed.ID)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/24"),
		netip.MustParsePrefix("192.168.1.7/32"),
		netip.MustParsePrefix("10.0.3.0/24"),
	}, got)

	assert.Empty(t, collect(t, repos.IP, 9999))

	t.Run("consumer stops early", func(t *testing.T) {
		count := 0
		for _, err := range repos.IP.StreamActiveValues(ctx, feed.ID) {
			require.NoError(t, err)
			count++
			break
		}
		assert.Equal(t, 1, count)
		// cursor released, pool still usable
		assert.Len(t, collect(t, repos.IP, feed.ID), 3)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		var gotErr error
		for _, err := range repos.IP.StreamActiveValues(cctx, feed.ID) {
			gotErr = err
		}
		require.ErrorIs(t, gotErr, domain.ErrFetch)
	})
}

func TestEntryRepository_Insert(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	urls, err := repos.Feed.CreateFeed(ctx, "urls", domain.KindURL, "")
	require.NoError(t, err)

	t.Run("stores canonical value and sanitized description", func(t *testing.T) {
		v, err := URLKind.Parse("HTTPS://Example.COM/Path?q=1")
		require.NoError(t, err)
		e, err := repos.URL.Insert(ctx, urls.ID, v, "<script>x</script>phishing", nil)
		require.NoError(t, err)
		assert.True(t, e.Enabled)
		assert.Equal(t, "phishing", e.Description)

		stored, err := repos.URL.Get(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/Path?q=1", stored.Value)
		assert.Equal(t, urls.ID, stored.FeedID)
		assert.Nil(t, stored.ValidUntil)
	})

	t.Run("missing feed", func(t *testing.T) {
		_, err := repos.URL.Insert(ctx, 777, "https://example.com/", "", nil)
		require.ErrorIs(t, err, domain.ErrStorage)
	})

	t.Run("feed of another kind", func(t *testing.T) {
		_, err := repos.Domain.Insert(ctx, urls.ID, "example.com", "", nil)
		require.ErrorIs(t, err, domain.ErrStorage)
	})

	t.Run("expiry kept in utc", func(t *testing.T) {
		until := time.Date(2030, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3*3600))
		e, err := repos.URL.Insert(ctx, urls.ID, "https://example.org/", "", &until)
		require.NoError(t, err)
		stored, err := repos.URL.Get(ctx, e.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ValidUntil)
		assert.True(t, until.Equal(*stored.ValidUntil))
	})
}

func TestEntryRepository_ListSome(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	feed, err := repos.Feed.CreateFeed(ctx, "domains", domain.KindDomain, "")
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := base.Add(48 * time.Hour)
	var ids []int64
	for i, d := range []string{"a.example", "b.example", "c.example", "d.example"} {
		var until *time.Time
		switch i {
		case 1:
			until = &base
		case 3:
			until = &later
		}
		e, err := repos.Domain.Insert(ctx, feed.ID, d, "", until)
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	third, err := repos.Domain.Get(ctx, ids[2])
	require.NoError(t, err)
	third.Enabled = false
	require.NoError(t, repos.Domain.Update(ctx, third))

	entryIDs := func(entries []domain.Entry[string]) []int64 {
		res := []int64{}
		for _, e := range entries {
			res = append(res, e.ID)
		}
		return res
	}

	t.Run("cursor pagination", func(t *testing.T) {
		page, err := repos.Domain.ListSome(ctx, feed.ID, domain.Cursor{After: 0, Limit: 2}, domain.EntryFilter{})
		require.NoError(t, err)
		assert.Equal(t, ids[:2], entryIDs(page))

		page, err = repos.Domain.ListSome(ctx, feed.ID, domain.Cursor{After: ids[1], Limit: 2}, domain.EntryFilter{})
		require.NoError(t, err)
		assert.Equal(t, ids[2:], entryIDs(page))

		page, err = repos.Domain.ListSome(ctx, feed.ID, domain.Cursor{After: ids[3], Limit: 2}, domain.EntryFilter{})
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	enabled, disabled := true, false
	tests := []struct {
		name   string
		filter domain.EntryFilter
		want   []int64
	}{
		{"enabled only", domain.EntryFilter{Enabled: &enabled}, []int64{ids[0], ids[1], ids[3]}},
		{"disabled only", domain.EntryFilter{Enabled: &disabled}, []int64{ids[2]}},
		{"no expiry", domain.EntryFilter{Validity: domain.ValidityNoExpiry}, []int64{ids[0], ids[2]}},
		{"expires at or after base", domain.EntryFilter{Validity: domain.ValidityNotBefore, At: base},
			[]int64{ids[1], ids[3]}},
		{"expires after base", domain.EntryFilter{Validity: domain.ValidityNotBefore, At: base.Add(time.Second)},
			[]int64{ids[3]}},
		{"enabled without expiry", domain.EntryFilter{Enabled: &enabled, Validity: domain.ValidityNoExpiry},
			[]int64{ids[0]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repos.Domain.ListSome(ctx, feed.ID, domain.Cursor{Limit: 10}, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entryIDs(res))
		})
	}

	_, err = repos.Domain.ListSome(ctx, feed.ID, domain.Cursor{Limit: 0}, domain.EntryFilter{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestEntryRepository_UpdateDelete(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	feed, err := repos.Feed.CreateFeed(ctx, "domains", domain.KindDomain, "")
	require.NoError(t, err)
	e, err := repos.Domain.Insert(ctx, feed.ID, "example.com", "", nil)
	require.NoError(t, err)

	until := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	upd := &domain.Entry[string]{ID: e.ID, Enabled: false, Description: "paused", ValidUntil: &until}
	require.NoError(t, repos.Domain.Update(ctx, upd))
	assert.Equal(t, feed.ID, upd.FeedID)

	stored, err := repos.Domain.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, stored.Enabled)
	assert.Equal(t, "paused", stored.Description)
	assert.Equal(t, "example.com", stored.Value)
	require.NotNil(t, stored.ValidUntil)
	assert.True(t, until.Equal(*stored.ValidUntil))

	err = repos.Domain.Update(ctx, &domain.Entry[string]{ID: 999})
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repos.Domain.Delete(ctx, e.ID))
	_, err = repos.Domain.Get(ctx, e.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, repos.Domain.Delete(ctx, e.ID), domain.ErrNotFound)
}

func TestEntryRepository_MutationsInvalidateDigest(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	feed, err := repos.Feed.CreateFeed(ctx, "blocklist", domain.KindIP, "")
	require.NoError(t, err)

	digestCleared := func(t *testing.T, mutate func() error) {
		t.Helper()
		require.NoError(t, repos.Feed.PersistDigest(ctx, feed.ID, []byte{1, 2, 3}))
		require.NoError(t, mutate())
		stored, err := repos.Feed.GetFeed(ctx, feed.ID)
		require.NoError(t, err)
		assert.False(t, stored.HasDigest())
	}

	var entry *domain.Entry[netip.Prefix]
	t.Run("insert", func(t *testing.T) {
		digestCleared(t, func() (err error) {
			entry, err = repos.IP.Insert(ctx, feed.ID, netip.MustParsePrefix("10.1.0.0/16"), "", nil)
			return err
		})
	})
	t.Run("update", func(t *testing.T) {
		require.NotNil(t, entry)
		digestCleared(t, func() error {
			entry.Enabled = false
			return repos.IP.Update(ctx, entry)
		})
	})
	t.Run("delete", func(t *testing.T) {
		require.NotNil(t, entry)
		digestCleared(t, func() error { return repos.IP.Delete(ctx, entry.ID) })
	})
}

func TestEntryRepository_FailedDigestClearRollsBack(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	feed, err := repos.Feed.CreateFeed(ctx, "blocklist", domain.KindDomain, "")
	require.NoError(t, err)
	entry, err := repos.Domain.Insert(ctx, feed.ID, "old.example", "", nil)
	require.NoError(t, err)
	require.NoError(t, repos.Feed.PersistDigest(ctx, feed.ID, []byte{1, 2, 3}))

	// any attempt to clear the digest fails from now on
	_, err = repos.DB.ExecContext(ctx, `CREATE TRIGGER deny_digest_clear BEFORE UPDATE OF digest ON feeds
		WHEN NEW.digest IS NULL BEGIN SELECT RAISE(ABORT, 'database is locked'); END`)
	require.NoError(t, err)

	unchanged := func(t *testing.T) {
		t.Helper()
		assert.Equal(t, []string{"old.example"}, collect(t, repos.Domain, feed.ID))
		stored, err := repos.Feed.GetFeed(ctx, feed.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, stored.Digest)
	}

	t.Run("insert", func(t *testing.T) {
		e, err := repos.Domain.Insert(ctx, feed.ID, "new.example", "", nil)
		require.ErrorIs(t, err, domain.ErrStorage)
		assert.Nil(t, e)
		unchanged(t)
	})
	t.Run("update", func(t *testing.T) {
		upd := *entry
		upd.Enabled = false
		require.ErrorIs(t, repos.Domain.Update(ctx, &upd), domain.ErrStorage)
		unchanged(t)
	})
	t.Run("delete", func(t *testing.T) {
		require.ErrorIs(t, repos.Domain.Delete(ctx, entry.ID), domain.ErrStorage)
		unchanged(t)
	})
}

func TestEntryRepository_FeedsExpiredBetween(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	f1, err := repos.Feed.CreateFeed(ctx, "f1", domain.KindURL, "")
	require.NoError(t, err)
	f2, err := repos.Feed.CreateFeed(ctx, "f2", domain.KindURL, "")
	require.NoError(t, err)

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { v := t0.Add(d); return &v }

	_, err = repos.URL.Insert(ctx, f1.ID, "https://a.example/", "", at(time.Minute))
	require.NoError(t, err)
	_, err = repos.URL.Insert(ctx, f1.ID, "https://b.example/", "", at(2*time.Minute))
	require.NoError(t, err)
	_, err = repos.URL.Insert(ctx, f2.ID, "https://c.example/", "", at(10*time.Minute))
	require.NoError(t, err)
	_, err = repos.URL.Insert(ctx, f2.ID, "https://d.example/", "", nil)
	require.NoError(t, err)

	ids, err := repos.URL.FeedsExpiredBetween(ctx, t0, t0.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []int64{f1.ID}, ids)

	ids, err = repos.URL.FeedsExpiredBetween(ctx, t0, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []int64{f1.ID, f2.ID}, ids)

	ids, err = repos.URL.FeedsExpiredBetween(ctx, t0.Add(time.Hour), t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ids)
}
