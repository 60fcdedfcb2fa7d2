package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/feed"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/sources.go -pkg mocks -skip-ensure -fmt goimports . SourceStore
//go:generate moq -out mocks/runs.go -pkg mocks -skip-ensure -fmt goimports . RunHistory
//go:generate moq -out mocks/seen.go -pkg mocks -skip-ensure -fmt goimports . SeenCounter
//go:generate moq -out mocks/digester.go -pkg mocks -skip-ensure -fmt goimports . Digester

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	sources  SourceStore
	runs     RunHistory
	seen     SeenCounter
	digester Digester
	metrics  http.Handler
	feeds    *feed.Generator
	version  string
	debug    bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// SourceStore manages feed sources
type SourceStore interface {
	Sources(ctx context.Context) ([]domain.Source, error)
	Add(ctx context.Context, url string) error
	Remove(ctx context.Context, url string) error
}

// RunHistory provides past digest runs
type RunHistory interface {
	Last(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// SeenCounter reports how many entries were already classified
type SeenCounter interface {
	Count(ctx context.Context, scope string) (int, error)
}

// Digester runs digests on demand and reports schedule state
type Digester interface {
	TryRunNow(ctx context.Context, prompt string) (*domain.Report, error)
	LastReport() *domain.Report
	Next() time.Time
	LastRun() time.Time
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Deps groups the stores and services used by handlers
type Deps struct {
	Sources  SourceStore
	Runs     RunHistory
	Seen     SeenCounter
	Digester Digester
	Metrics  http.Handler // served on /metrics if set
	BaseURL  string       // public url of the server, used in generated feeds
}

// New initializes a new server instance
func New(cfg ConfigProvider, deps Deps, version string, debug bool) *Server {
	s := &Server{
		config:   cfg,
		sources:  deps.Sources,
		runs:     deps.Runs,
		seen:     deps.Seen,
		digester: deps.Digester,
		metrics:  deps.Metrics,
		feeds:    feed.NewGenerator(deps.BaseURL),
		version:  version,
		debug:    debug,
		router:   routegroup.New(http.NewServeMux()),
	}

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
	s.router.Use(rest.AppInfo("newsdigest", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(log.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /digest", s.digestHandler)
		r.HandleFunc("GET /runs", s.runsHandler)
		r.HandleFunc("GET /sources", s.listSourcesHandler)
		r.HandleFunc("POST /sources", s.addSourceHandler)
		r.HandleFunc("DELETE /sources", s.removeSourceHandler)
		r.HandleFunc("GET /sources.opml", s.sourcesOPMLHandler)
	})

	s.router.HandleFunc("GET /rss", s.digestRSSHandler)

	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics)
	}
}
