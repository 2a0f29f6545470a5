// Package server exposes the frame pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness probe
//	GET  /api/ls             directory listing as JSON
//	GET  /api/scene          visible points as JSON (query parameters)
//	POST /api/scene          same, with pipeline options as a JSON body
//	GET  /api/hit            node under a screen position
//	GET  /scene.{format}     rendered scene (svg, png, json, dot, graph)
//	POST /api/sessions       start a navigator session
//	GET  /api/sessions/{id}  current session state
//	POST /api/sessions/{id}/events  apply a drag, scroll, click, open, up ...
//	DELETE /api/sessions/{id}
//	GET  /metrics            Prometheus metrics, when enabled
//
// Scene parameters: dir, yaw, pitch, dist, fov, width, height, limit,
// labels, hud, scale, hover_x and hover_y. Unset parameters fall back to the
// server defaults.
//
// Sessions keep a navigator's directory, camera and hover between requests so
// a client can drive the scene with input events instead of recomputing
// camera parameters itself.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fsnav/pkg/pipeline"
	"github.com/matzehuels/fsnav/pkg/session"
)

// Config wires a Server.
type Config struct {
	// Runner executes the pipeline. Required.
	Runner *pipeline.Runner

	// Defaults seed every request's options. Dir defaults to "/".
	Defaults pipeline.Options

	// Metrics, when set, is served on /metrics.
	Metrics *Metrics

	// Sessions stores navigator sessions. Defaults to an in-memory store.
	Sessions session.Store

	// SessionTTL is the idle lifetime of a session. Defaults to
	// session.DefaultTTL.
	SessionTTL time.Duration

	Logger *log.Logger
}

// Server is the fsnav HTTP API.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	metrics  *Metrics
	logger   *log.Logger
	router   chi.Router

	sessions   session.Store
	sessionTTL time.Duration
	locks      sessionLocks
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	defaults := cfg.Defaults
	if defaults.Dir == "" {
		defaults.Dir = "/"
	}
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	s := &Server{
		runner:     cfg.Runner,
		defaults:   defaults,
		metrics:    cfg.Metrics,
		logger:     logger,
		sessions:   sessions,
		sessionTTL: ttl,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/ls", s.handleList)
		r.Get("/scene", s.handleScene)
		r.Post("/scene", s.handleScenePost)
		r.Get("/hit", s.handleHit)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleSessionCreate)
			r.Get("/{id}", s.handleSessionGet)
			r.Post("/{id}/events", s.handleSessionEvent)
			r.Delete("/{id}", s.handleSessionDelete)
		})
	})
	r.Get("/scene.{format}", s.handleArtifact)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

const (
	// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
	ShutdownTimeout = 5 * time.Second

	// SessionCleanupInterval is how often expired sessions are purged.
	SessionCleanupInterval = time.Minute
)

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	go s.cleanupSessions(ctx, SessionCleanupInterval)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// cleanupSessions purges expired sessions every interval until ctx is done.
func (s *Server) cleanupSessions(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
