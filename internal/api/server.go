// Package api exposes the configuration inspection HTTP API: health and
// version probes, the default registry, the resolved configuration for the
// server's directory, and on-demand validation of user configurations.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nauticalab/buildconf/internal/config"
)

// Server represents the HTTP API server
type Server struct {
	router  *chi.Mux
	handler *Handler
	addr    string
	log     zerolog.Logger
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port      int
	Dir       string
	Resolver  *config.Resolver
	Logger    zerolog.Logger
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
}

// NewServer creates a new API server with the given configuration
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Resolver == nil {
		cfg.Resolver = config.NewResolver(config.WithLogger(cfg.Logger))
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}

	handler := NewHandler(
		cfg.Resolver,
		cfg.Dir,
		cfg.Version,
		cfg.GitCommit,
		cfg.BuildTime,
		cfg.GoVersion,
		cfg.Logger,
	)

	router := chi.NewRouter()
	setupMiddleware(router, cfg.Logger)
	setupRoutes(router, handler)

	return &Server{
		router:  router,
		handler: handler,
		addr:    fmt.Sprintf(":%d", cfg.Port),
		log:     cfg.Logger,
	}, nil
}

// setupMiddleware configures the middleware chain
func setupMiddleware(router *chi.Mux, log zerolog.Logger) {
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
}

// requestLogger logs one line per request through the server's zerolog
// logger.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// setupRoutes configures the API routes
func setupRoutes(router *chi.Mux, handler *Handler) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.Health)
		r.Get("/version", handler.Version)
		r.Get("/defaults", handler.Defaults)
		r.Get("/config", handler.Config)
		r.Post("/validate", handler.Validate)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.addr).Msg("starting API server")

	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// StartWithContext starts the HTTP server with graceful shutdown support
func (s *Server) StartWithContext(ctx context.Context) error {
	s.log.Info().Str("addr", s.addr).Msg("starting API server")

	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("server shutdown error")
			return err
		}
		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
