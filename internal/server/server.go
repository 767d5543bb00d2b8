// Package server exposes the HTTP surface: the authenticated generation
// trigger, a read-only diagnostics endpoint, and article reads.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"autopress/internal/config"
	"autopress/internal/core"
	"autopress/internal/logger"
	"autopress/internal/pipeline"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Runner executes one full generation run.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Store is the read surface the server needs, plus liveness.
type Store interface {
	Ping() error
	GetConfig() (*core.AutopostConfig, error)
	ListUsers() ([]core.User, error)
	GetArticle(id string) (*core.Article, error)
	ListArticles() ([]core.Article, error)
}

// Backend reports whether the text generation backend is usable.
type Backend interface {
	Ready() bool
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	store      Store
	runner     Runner
	backend    Backend
	guard      *guard
	config     config.Server
	log        *slog.Logger
}

// New creates a new HTTP server instance. secret is the shared trigger
// secret; when empty the trigger endpoint rejects every caller.
func New(store Store, runner Runner, backend Backend, secret string, cfg config.Server) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		store:   store,
		runner:  runner,
		backend: backend,
		guard:   newGuard(secret),
		config:  cfg,
		log:     logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Generation runs make several model calls in sequence; give them room.
	s.router.Use(middleware.Timeout(5 * time.Minute))

	if s.config.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/autopost/run", s.handleRun)
		r.Post("/autopost/run", s.handleRun)
		r.Get("/autopost/status", s.handleStatus)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", s.handleListArticles)
			r.Get("/{id}", s.handleGetArticle)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.config.ReadTimeout,
		"write_timeout", s.config.WriteTimeout,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
