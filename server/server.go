package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"golang.org/x/crypto/bcrypt"

	"github.com/umputun/listfeed/pkg/domain"
	"github.com/umputun/listfeed/pkg/feed"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/database.go -pkg mocks -skip-ensure -fmt goimports . Database
//go:generate moq -out mocks/renderer.go -pkg mocks -skip-ensure -fmt goimports . Renderer

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	db       Database
	renderer Renderer
	version  string
	debug    bool

	adminDir  string
	tokenHash string

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Database interface for the admin API. Entry operations are scoped to the given feed
// and work with values in their canonical text form.
type Database interface {
	ListFeeds(ctx context.Context, page *domain.Page) ([]*domain.Feed, error)
	GetFeed(ctx context.Context, id int64) (*domain.Feed, error)
	CreateFeed(ctx context.Context, name string, kind domain.Kind, description string) (*domain.Feed, error)
	UpdateFeed(ctx context.Context, feed *domain.Feed) error
	DeleteFeed(ctx context.Context, id int64) error

	ListEntries(ctx context.Context, feed *domain.Feed, cursor domain.Cursor, filter domain.EntryFilter) ([]domain.Entry[string], error)
	GetEntry(ctx context.Context, feed *domain.Feed, id int64) (*domain.Entry[string], error)
	CreateEntry(ctx context.Context, feed *domain.Feed, value, description string, validUntil *time.Time) (*domain.Entry[string], error)
	UpdateEntry(ctx context.Context, feed *domain.Feed, entry *domain.Entry[string]) error
	DeleteEntry(ctx context.Context, feed *domain.Feed, id int64) error

	Ping(ctx context.Context) error
}

// Renderer produces plaintext feed bodies
type Renderer interface {
	Render(ctx context.Context, name string) (*feed.Rendered, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetAdminConfig() (dir, tokenHash string)
}

// New initializes a new server instance
func New(cfg ConfigProvider, db Database, renderer Renderer, version string, debug bool) *Server {
	s := &Server{
		config:   cfg,
		db:       db,
		renderer: renderer,
		version:  version,
		debug:    debug,
		router:   routegroup.New(http.NewServeMux()),
	}
	s.adminDir, s.tokenHash = cfg.GetAdminConfig()

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("listfeed", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// public feed documents
	s.router.HandleFunc("GET /feed/{name}", s.feedHandler)

	// admin API
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.Use(s.authMiddleware)
		r.HandleFunc("GET /status", s.statusHandler)

		r.HandleFunc("GET /feeds", s.listFeedsHandler)
		r.HandleFunc("POST /feeds", s.createFeedHandler)
		r.HandleFunc("GET /feeds/{id}", s.getFeedHandler)
		r.HandleFunc("PUT /feeds/{id}", s.updateFeedHandler)
		r.HandleFunc("DELETE /feeds/{id}", s.deleteFeedHandler)

		r.HandleFunc("GET /feeds/{id}/entries", s.listEntriesHandler)
		r.HandleFunc("POST /feeds/{id}/entries", s.createEntryHandler)
		r.HandleFunc("GET /feeds/{id}/entries/{entryID}", s.getEntryHandler)
		r.HandleFunc("PUT /feeds/{id}/entries/{entryID}", s.updateEntryHandler)
		r.HandleFunc("DELETE /feeds/{id}/entries/{entryID}", s.deleteEntryHandler)
	})

	// static admin UI
	if s.adminDir != "" {
		s.router.Handle("GET /admin/", http.StripPrefix("/admin/", http.FileServer(http.Dir(s.adminDir))))
		s.router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/", http.StatusFound)
		})
	}
}

// authMiddleware requires a bearer token matching the configured bcrypt hash.
// Without a configured hash the admin API is open.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tokenHash == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" || bcrypt.CompareHashAndPassword([]byte(s.tokenHash), []byte(token)) != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="listfeed"`)
			renderError(w, r, errors.New("unauthorized"), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

// renderStoreError maps a repository error to the admin API status code.
// Details of unexpected failures are logged, not returned.
func renderStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		renderError(w, r, errors.New("not found"), http.StatusNotFound)
	case errors.Is(err, domain.ErrConflict):
		renderError(w, r, err, http.StatusConflict)
	case errors.Is(err, domain.ErrValidation):
		renderError(w, r, err, http.StatusBadRequest)
	default:
		log.Printf("[ERROR] failed to %s: %v", op, err)
		renderError(w, r, fmt.Errorf("failed to %s", op), http.StatusInternalServerError)
	}
}
