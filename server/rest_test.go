package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/listfeed/pkg/domain"
	"github.com/umputun/listfeed/server/mocks"
)

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

// feedDB returns a database mock knowing a single ip feed with id 1
func feedDB() *mocks.DatabaseMock {
	return &mocks.DatabaseMock{
		GetFeedFunc: func(ctx context.Context, id int64) (*domain.Feed, error) {
			if id != 1 {
				return nil, fmt.Errorf("get feed %d: %w", id, domain.ErrNotFound)
			}
			return &domain.Feed{ID: 1, Name: "blocklist-a", Kind: domain.KindIP, Description: "bad nets"}, nil
		},
	}
}

func TestServer_listFeedsHandler(t *testing.T) {
	database := &mocks.DatabaseMock{
		ListFeedsFunc: func(ctx context.Context, page *domain.Page) ([]*domain.Feed, error) {
			if page != nil && page.Size <= 0 {
				return nil, fmt.Errorf("%w: page size must be positive", domain.ErrValidation)
			}
			return []*domain.Feed{
				{ID: 1, Name: "blocklist-a", Kind: domain.KindIP, Digest: []byte{0xab, 0xcd}},
				{ID: 2, Name: "phishing", Kind: domain.KindURL},
			}, nil
		},
	}
	srv := testServer(t, database, nil)

	t.Run("all", func(t *testing.T) {
		w := doRequest(t, srv, "GET", "/api/v1/feeds", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp []feedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, feedResponse{ID: 1, Name: "blocklist-a", Kind: "ip", Digest: "abcd"}, resp[0])
		assert.Equal(t, "url", resp[1].Kind)
		assert.Empty(t, resp[1].Digest)
		assert.Nil(t, database.ListFeedsCalls()[0].Page)
	})

	t.Run("page", func(t *testing.T) {
		w := doRequest(t, srv, "GET", "/api/v1/feeds?page=2&size=10", "")
		require.Equal(t, http.StatusOK, w.Code)
		calls := database.ListFeedsCalls()
		assert.Equal(t, &domain.Page{Pos: 2, Size: 10}, calls[len(calls)-1].Page)
	})

	t.Run("bad parameters", func(t *testing.T) {
		for _, q := range []string{"page=1", "size=5", "page=x&size=5", "page=1&size=y", "page=-1&size=5",
			"page=9223372036854775807&size=1000", "page=1&size=1001"} {
			w := doRequest(t, srv, "GET", "/api/v1/feeds?"+q, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
		w := doRequest(t, srv, "GET", "/api/v1/feeds?page=0&size=0", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_createFeedHandler(t *testing.T) {
	database := &mocks.DatabaseMock{
		CreateFeedFunc: func(ctx context.Context, name string, kind domain.Kind, description string) (*domain.Feed, error) {
			if name == "taken" {
				return nil, fmt.Errorf("create feed %q: %w", name, domain.ErrConflict)
			}
			return &domain.Feed{ID: 5, Name: name, Kind: kind, Description: description}, nil
		},
	}
	srv := testServer(t, database, nil)

	w := doRequest(t, srv, "POST", "/api/v1/feeds", `{"name":"blocklist-a","kind":"IP","description":"bad nets"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp feedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, feedResponse{ID: 5, Name: "blocklist-a", Kind: "ip", Description: "bad nets"}, resp)
	assert.Equal(t, domain.KindIP, database.CreateFeedCalls()[0].Kind)

	w = doRequest(t, srv, "POST", "/api/v1/feeds", `{"name":"taken","kind":"url"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, srv, "POST", "/api/v1/feeds", `{"name":"x","kind":"asn"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown feed kind")

	w = doRequest(t, srv, "POST", "/api/v1/feeds", `{bad json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, database.CreateFeedCalls(), 2)
}

func TestServer_feedCRUDHandlers(t *testing.T) {
	database := feedDB()
	database.UpdateFeedFunc = func(ctx context.Context, feed *domain.Feed) error { return nil }
	database.DeleteFeedFunc = func(ctx context.Context, id int64) error {
		if id != 1 {
			return fmt.Errorf("delete feed %d: %w", id, domain.ErrNotFound)
		}
		return nil
	}
	srv := testServer(t, database, nil)

	t.Run("get", func(t *testing.T) {
		w := doRequest(t, srv, "GET", "/api/v1/feeds/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"blocklist-a"`)

		assert.Equal(t, http.StatusNotFound, doRequest(t, srv, "GET", "/api/v1/feeds/9", "").Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(t, srv, "GET", "/api/v1/feeds/abc", "").Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(t, srv, "GET", "/api/v1/feeds/0", "").Code)
	})

	t.Run("update", func(t *testing.T) {
		w := doRequest(t, srv, "PUT", "/api/v1/feeds/1", `{"name":"blocklist-b","description":"renamed"}`)
		require.Equal(t, http.StatusOK, w.Code)
		calls := database.UpdateFeedCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, "blocklist-b", calls[0].Feed.Name)
		assert.Equal(t, "renamed", calls[0].Feed.Description)
		assert.Equal(t, domain.KindIP, calls[0].Feed.Kind)

		w = doRequest(t, srv, "PUT", "/api/v1/feeds/1", `{"name":"blocklist-b","kind":"url"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, database.UpdateFeedCalls(), 1)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, doRequest(t, srv, "DELETE", "/api/v1/feeds/1", "").Code)
		assert.Equal(t, http.StatusNotFound, doRequest(t, srv, "DELETE", "/api/v1/feeds/2", "").Code)
	})
}

func TestServer_listEntriesHandler(t *testing.T) {
	validUntil := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	database := feedDB()
	database.ListEntriesFunc = func(ctx context.Context, feed *domain.Feed, cursor domain.Cursor,
		filter domain.EntryFilter) ([]domain.Entry[string], error) {
		entries := []domain.Entry[string]{
			{ID: 3, FeedID: 1, Value: "10.0.0.0/24", Enabled: true},
			{ID: 4, FeedID: 1, Value: "192.168.0.1/32", Enabled: true, ValidUntil: &validUntil},
		}
		return entries[:min(len(entries), cursor.Limit)], nil
	}
	srv := testServer(t, database, nil)

	t.Run("defaults", func(t *testing.T) {
		w := doRequest(t, srv, "GET", "/api/v1/feeds/1/entries", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp entriesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Entries, 2)
		assert.Equal(t, "10.0.0.0/24", resp.Entries[0].Value)
		assert.Nil(t, resp.Entries[0].ValidUntil)
		require.NotNil(t, resp.Entries[1].ValidUntil)
		assert.True(t, validUntil.Equal(*resp.Entries[1].ValidUntil))
		assert.True(t, resp.Entries[0].Active)
		assert.False(t, resp.Entries[1].Active, "expired entry stays listed but is not active")
		assert.Zero(t, resp.Next, "short page is the last one")

		call := database.ListEntriesCalls()[0]
		assert.Equal(t, domain.Cursor{After: 0, Limit: defaultEntriesLimit}, call.Cursor)
		assert.Equal(t, domain.EntryFilter{}, call.Filter)
		assert.Equal(t, int64(1), call.Feed.ID)
	})

	t.Run("cursor and filters", func(t *testing.T) {
		w := doRequest(t, srv, "GET", "/api/v1/feeds/1/entries?after=2&limit=1&enabled=true&valid=2026-04-01T00:00:00Z", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp entriesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Entries, 1)
		assert.Equal(t, int64(3), resp.Next)

		calls := database.ListEntriesCalls()
		call := calls[len(calls)-1]
		assert.Equal(t, domain.Cursor{After: 2, Limit: 1}, call.Cursor)
		require.NotNil(t, call.Filter.Enabled)
		assert.True(t, *call.Filter.Enabled)
		assert.Equal(t, domain.ValidityNotBefore, call.Filter.Validity)
		assert.True(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Equal(call.Filter.At))
	})

	t.Run("no expiry and limit cap", func(t *testing.T) {
		w := doRequest(t, srv, "GET", "/api/v1/feeds/1/entries?valid=none&limit=5000", "")
		require.Equal(t, http.StatusOK, w.Code)
		calls := database.ListEntriesCalls()
		call := calls[len(calls)-1]
		assert.Equal(t, domain.ValidityNoExpiry, call.Filter.Validity)
		assert.Equal(t, maxEntriesLimit, call.Cursor.Limit)
	})

	t.Run("bad query", func(t *testing.T) {
		before := len(database.ListEntriesCalls())
		for _, q := range []string{"after=-1", "after=x", "limit=0", "limit=abc", "enabled=maybe", "valid=yesterday"} {
			w := doRequest(t, srv, "GET", "/api/v1/feeds/1/entries?"+q, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
		assert.Len(t, database.ListEntriesCalls(), before)
	})

	t.Run("unknown feed", func(t *testing.T) {
		w := doRequest(t, srv, "GET", "/api/v1/feeds/9/entries", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_createEntryHandler(t *testing.T) {
	database := feedDB()
	database.CreateEntryFunc = func(ctx context.Context, feed *domain.Feed, value, description string,
		validUntil *time.Time) (*domain.Entry[string], error) {
		if value == "not-an-ip" {
			return nil, fmt.Errorf("%w: invalid address %q", domain.ErrValidation, value)
		}
		return &domain.Entry[string]{ID: 7, FeedID: feed.ID, Value: "10.0.0.0/24", Enabled: true,
			Description: description, ValidUntil: validUntil}, nil
	}
	srv := testServer(t, database, nil)

	w := doRequest(t, srv, "POST", "/api/v1/feeds/1/entries",
		`{"value":"10.0.0.1/24","description":"scanner","valid_until":"2026-12-31T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp entryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "10.0.0.0/24", resp.Value)
	assert.True(t, resp.Enabled)

	call := database.CreateEntryCalls()[0]
	assert.Equal(t, "10.0.0.1/24", call.Value)
	assert.Equal(t, "scanner", call.Description)
	require.NotNil(t, call.ValidUntil)
	assert.True(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC).Equal(*call.ValidUntil))

	w = doRequest(t, srv, "POST", "/api/v1/feeds/1/entries", `{"value":"not-an-ip"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid address")

	w = doRequest(t, srv, "POST", "/api/v1/feeds/1/entries", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, "POST", "/api/v1/feeds/9/entries", `{"value":"10.0.0.1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, database.CreateEntryCalls(), 2)
}

func TestServer_entryHandlers(t *testing.T) {
	validUntil := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	database := feedDB()
	database.GetEntryFunc = func(ctx context.Context, feed *domain.Feed, id int64) (*domain.Entry[string], error) {
		if id != 3 {
			return nil, fmt.Errorf("get entry %d: %w", id, domain.ErrNotFound)
		}
		return &domain.Entry[string]{ID: 3, FeedID: feed.ID, Value: "10.0.0.0/24", Enabled: true,
			Description: "old", ValidUntil: &validUntil}, nil
	}
	database.UpdateEntryFunc = func(ctx context.Context, feed *domain.Feed, entry *domain.Entry[string]) error { return nil }
	database.DeleteEntryFunc = func(ctx context.Context, feed *domain.Feed, id int64) error {
		if id != 3 {
			return fmt.Errorf("delete entry %d: %w", id, domain.ErrNotFound)
		}
		return nil
	}
	srv := testServer(t, database, nil)

	t.Run("get", func(t *testing.T) {
		w := doRequest(t, srv, "GET", "/api/v1/feeds/1/entries/3", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"value":"10.0.0.0/24"`)

		assert.Equal(t, http.StatusNotFound, doRequest(t, srv, "GET", "/api/v1/feeds/1/entries/4", "").Code)
		assert.Equal(t, http.StatusNotFound, doRequest(t, srv, "GET", "/api/v1/feeds/9/entries/3", "").Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(t, srv, "GET", "/api/v1/feeds/1/entries/x", "").Code)
	})

	t.Run("update keeps enabled unless given", func(t *testing.T) {
		w := doRequest(t, srv, "PUT", "/api/v1/feeds/1/entries/3", `{"description":"new"}`)
		require.Equal(t, http.StatusOK, w.Code)
		calls := database.UpdateEntryCalls()
		require.Len(t, calls, 1)
		assert.True(t, calls[0].Entry.Enabled)
		assert.Equal(t, "new", calls[0].Entry.Description)
		assert.Nil(t, calls[0].Entry.ValidUntil, "omitted expiry means the entry never expires")

		w = doRequest(t, srv, "PUT", "/api/v1/feeds/1/entries/3", `{"enabled":false,"description":"off"}`)
		require.Equal(t, http.StatusOK, w.Code)
		calls = database.UpdateEntryCalls()
		require.Len(t, calls, 2)
		assert.False(t, calls[1].Entry.Enabled)

		w = doRequest(t, srv, "PUT", "/api/v1/feeds/1/entries/8", `{"description":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Len(t, database.UpdateEntryCalls(), 2)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, doRequest(t, srv, "DELETE", "/api/v1/feeds/1/entries/3", "").Code)
		assert.Equal(t, http.StatusNotFound, doRequest(t, srv, "DELETE", "/api/v1/feeds/1/entries/5", "").Code)
	})
}
