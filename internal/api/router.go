package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds the database ping behind GET /health.
const healthCheckTimeout = 2 * time.Second

// defaultWSPath is used when websocket.path is not configured.
const defaultWSPath = "/ws"

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	// Term endpoints. The collection is served with and without the
	// trailing slash.
	for _, collection := range []string{"/terms", "/terms/"} {
		r.Get(collection, s.handleListTerms)
		r.Post(collection, s.handleCreateTerm)
	}
	item := "/terms/{" + termIDParam + "}"
	r.Get(item, s.handleGetTerm)
	r.Put(item, s.handleUpdateTerm)
	r.Delete(item, s.handleDeleteTerm)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Get(s.wsPath(), s.handleWebSocket)

	return r
}

// wsPath returns the configured WebSocket path.
func (s *Server) wsPath() string {
	if s.wsCfg.Path == "" {
		return defaultWSPath
	}
	return s.wsCfg.Path
}

// handleHealth reports service status after pinging the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := s.db.HealthCheck(ctx); err != nil {
			s.logger.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "unavailable",
				"version": s.version,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeDetail(w, http.StatusNotFound, detailNotFound)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeDetail(w, http.StatusMethodNotAllowed, detailMethodNotAllowed)
}
