// Package api serves the search pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/auth"
	"github.com/star/snwatch/internal/config"
	"github.com/star/snwatch/internal/health"
	"github.com/star/snwatch/internal/metrics"
	"github.com/star/snwatch/internal/search"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer  *http.Server
	coordinator *search.Coordinator
	pipeline    *search.Pipeline
	logger      *zap.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(cfg *config.Config, pipeline *search.Pipeline, coordinator *search.Coordinator, logger *zap.Logger) *Server {
	logger = logger.Named("api")
	h := &handlers{
		pipeline:    pipeline,
		coordinator: coordinator,
		defaults:    cfg.Search,
		language:    cfg.Report.Language,
		now:         time.Now,
		logger:      logger,
	}

	// Middleware chain: metrics -> request id -> logging -> recover -> auth -> routes.
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware(auth.Config{Token: cfg.Auth.Token}, logger))

	r.Get("/", h.index)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz(pipeline.Store()))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sites", h.sites)
		r.Get("/windows", h.windows)
		r.Post("/search", h.triggerSearch)
		r.Get("/search", h.searchStatus)
		r.Get("/candidates", h.candidates)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           r,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
		coordinator: coordinator,
		pipeline:    pipeline,
		logger:      logger,
	}
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully. It also
// collects finished searches and keeps the snapshot age gauge current.
func (s *Server) Run(ctx context.Context) error {
	go s.coordinator.Watch(ctx, nil)

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if age := s.pipeline.Store().AgeSeconds(); age >= 0 {
					metrics.SetSnapshotAge(age)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "http server")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "http shutdown")
	}
	s.logger.Info("server stopped")
	return nil
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := zap.InfoLevel
			if probePath(r.URL.Path) {
				level = zap.DebugLevel
			}

			logger.Log(level, "request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("remote_ip", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
