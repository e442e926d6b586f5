package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/umputun/listfeed/pkg/domain"
)

// feedHandler serves the plaintext document of a feed, one active value per line.
// The entity tag is hashed from the body, so unchanged feeds answer 304 to conditional requests.
func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	rendered, err := s.renderer.Render(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "feed not found", http.StatusNotFound)
			return
		}
		log.Printf("[WARN] failed to render feed %s: %v", name, err)
		http.Error(w, "can't render feed", http.StatusBadRequest)
		return
	}

	etag := rendered.ETag()
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(rendered.Body)); err != nil {
		log.Printf("[ERROR] failed to write feed %s: %v", name, err)
	}
}

// etagMatch checks If-None-Match header value against the current entity tag, weak tags compare equal
func etagMatch(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
