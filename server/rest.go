package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/listfeed/pkg/domain"
)

const (
	defaultEntriesLimit = 100
	maxEntriesLimit     = 1000
	maxFeedsPageSize    = 1000
	maxFeedsPage        = 1_000_000
)

// feedRequest is the body of feed create and update requests, kind is ignored on update
type feedRequest struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

type feedResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Digest      string `json:"digest,omitempty"`
}

// entryRequest is the body of entry create and update requests, value is ignored on update
type entryRequest struct {
	Value       string     `json:"value"`
	Enabled     *bool      `json:"enabled,omitempty"`
	Description string     `json:"description"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
}

type entryResponse struct {
	ID          int64      `json:"id"`
	FeedID      int64      `json:"feed_id"`
	Value       string     `json:"value"`
	Enabled     bool       `json:"enabled"`
	Active      bool       `json:"active"` // included in the rendered feed right now
	Description string     `json:"description"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
}

type entriesResponse struct {
	Entries []entryResponse `json:"entries"`
	Next    int64           `json:"next,omitempty"` // cursor for the following page, absent on the last one
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	if err := s.db.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["error"] = "database unavailable"
		renderJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	renderJSON(w, r, http.StatusOK, status)
}

// listFeedsHandler returns all feeds, or one page of them when both page and size are set
func (s *Server) listFeedsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageStr, sizeStr := q.Get("page"), q.Get("size")

	var page *domain.Page
	switch {
	case pageStr == "" && sizeStr == "":
	case pageStr == "" || sizeStr == "":
		renderError(w, r, errors.New("page and size must be set together"), http.StatusBadRequest)
		return
	default:
		pos, err := strconv.Atoi(pageStr)
		if err != nil || pos < 0 || pos > maxFeedsPage {
			renderError(w, r, fmt.Errorf("invalid page, expected 0..%d", maxFeedsPage), http.StatusBadRequest)
			return
		}
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size <= 0 || size > maxFeedsPageSize {
			renderError(w, r, fmt.Errorf("invalid size, expected 1..%d", maxFeedsPageSize), http.StatusBadRequest)
			return
		}
		page = &domain.Page{Pos: pos, Size: size}
	}

	feeds, err := s.db.ListFeeds(r.Context(), page)
	if err != nil {
		renderStoreError(w, r, "list feeds", err)
		return
	}
	resp := make([]feedResponse, 0, len(feeds))
	for _, f := range feeds {
		resp = append(resp, toFeedResponse(f))
	}
	renderJSON(w, r, http.StatusOK, resp)
}

// createFeedHandler registers a new feed
func (s *Server) createFeedHandler(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	f, err := s.db.CreateFeed(r.Context(), req.Name, kind, req.Description)
	if err != nil {
		renderStoreError(w, r, "create feed", err)
		return
	}
	renderJSON(w, r, http.StatusCreated, toFeedResponse(f))
}

// getFeedHandler returns a single feed
func (s *Server) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.pathFeed(w, r)
	if !ok {
		return
	}
	renderJSON(w, r, http.StatusOK, toFeedResponse(f))
}

// updateFeedHandler renames a feed or changes its description, the kind can't be changed
func (s *Server) updateFeedHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.pathFeed(w, r)
	if !ok {
		return
	}
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}
	if req.Kind != "" && req.Kind != f.Kind.String() {
		renderError(w, r, errors.New("feed kind can't be changed"), http.StatusBadRequest)
		return
	}

	f.Name, f.Description = req.Name, req.Description
	if err := s.db.UpdateFeed(r.Context(), f); err != nil {
		renderStoreError(w, r, "update feed", err)
		return
	}
	renderJSON(w, r, http.StatusOK, toFeedResponse(f))
}

// deleteFeedHandler deletes a feed with all its entries
func (s *Server) deleteFeedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.db.DeleteFeed(r.Context(), id); err != nil {
		renderStoreError(w, r, "delete feed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listEntriesHandler returns a window of feed entries with ids greater than "after"
func (s *Server) listEntriesHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.pathFeed(w, r)
	if !ok {
		return
	}
	cursor, filter, err := parseEntriesQuery(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	entries, err := s.db.ListEntries(r.Context(), f, cursor, filter)
	if err != nil {
		renderStoreError(w, r, "list entries", err)
		return
	}
	resp := entriesResponse{Entries: make([]entryResponse, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(&entries[i]))
	}
	if len(entries) == cursor.Limit {
		resp.Next = entries[len(entries)-1].ID
	}
	renderJSON(w, r, http.StatusOK, resp)
}

// createEntryHandler adds an enabled entry to the feed
func (s *Server) createEntryHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.pathFeed(w, r)
	if !ok {
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}

	e, err := s.db.CreateEntry(r.Context(), f, req.Value, req.Description, req.ValidUntil)
	if err != nil {
		renderStoreError(w, r, "create entry", err)
		return
	}
	renderJSON(w, r, http.StatusCreated, toEntryResponse(e))
}

// getEntryHandler returns a single entry of the feed
func (s *Server) getEntryHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.pathFeed(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "entryID")
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	e, err := s.db.GetEntry(r.Context(), f, id)
	if err != nil {
		renderStoreError(w, r, "get entry", err)
		return
	}
	renderJSON(w, r, http.StatusOK, toEntryResponse(e))
}

// updateEntryHandler replaces description and expiry of an entry, enabled flag is kept unless given
func (s *Server) updateEntryHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.pathFeed(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "entryID")
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}

	e, err := s.db.GetEntry(r.Context(), f, id)
	if err != nil {
		renderStoreError(w, r, "get entry", err)
		return
	}
	if req.Enabled != nil {
		e.Enabled = *req.Enabled
	}
	e.Description, e.ValidUntil = req.Description, req.ValidUntil
	if err := s.db.UpdateEntry(r.Context(), f, e); err != nil {
		renderStoreError(w, r, "update entry", err)
		return
	}
	renderJSON(w, r, http.StatusOK, toEntryResponse(e))
}

// deleteEntryHandler removes an entry of the feed
func (s *Server) deleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := s.pathFeed(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "entryID")
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.db.DeleteEntry(r.Context(), f, id); err != nil {
		renderStoreError(w, r, "delete entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathFeed loads the feed referenced by the {id} path value, rendering the error response on failure
func (s *Server) pathFeed(w http.ResponseWriter, r *http.Request) (*domain.Feed, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return nil, false
	}
	f, err := s.db.GetFeed(r.Context(), id)
	if err != nil {
		renderStoreError(w, r, "get feed", err)
		return nil, false
	}
	return f, true
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}
	return id, nil
}

// parseEntriesQuery reads after, limit, enabled and valid query parameters.
// valid is either "none" for entries without expiry or an RFC3339 instant
// selecting entries still valid at that moment.
func parseEntriesQuery(r *http.Request) (domain.Cursor, domain.EntryFilter, error) {
	q := r.URL.Query()
	cursor := domain.Cursor{Limit: defaultEntriesLimit}
	var filter domain.EntryFilter

	if v := q.Get("after"); v != "" {
		after, err := strconv.ParseInt(v, 10, 64)
		if err != nil || after < 0 {
			return cursor, filter, fmt.Errorf("invalid after %q", v)
		}
		cursor.After = after
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return cursor, filter, fmt.Errorf("invalid limit %q", v)
		}
		cursor.Limit = min(limit, maxEntriesLimit)
	}
	if v := q.Get("enabled"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cursor, filter, fmt.Errorf("invalid enabled %q", v)
		}
		filter.Enabled = &enabled
	}
	switch v := q.Get("valid"); v {
	case "":
	case "none":
		filter.Validity = domain.ValidityNoExpiry
	default:
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return cursor, filter, fmt.Errorf("invalid valid %q, expected none or RFC3339 time", v)
		}
		filter.Validity, filter.At = domain.ValidityNotBefore, at
	}
	return cursor, filter, nil
}

func toFeedResponse(f *domain.Feed) feedResponse {
	return feedResponse{
		ID:          f.ID,
		Name:        f.Name,
		Kind:        f.Kind.String(),
		Description: f.Description,
		Digest:      fmt.Sprintf("%x", f.Digest),
	}
}

func toEntryResponse(e *domain.Entry[string]) entryResponse {
	return entryResponse{
		ID:          e.ID,
		FeedID:      e.FeedID,
		Value:       e.Value,
		Enabled:     e.Enabled,
		Active:      e.Active(time.Now()),
		Description: e.Description,
		ValidUntil:  e.ValidUntil,
	}
}
