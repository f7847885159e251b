// Package api provides the HTTP status/metrics server around a bbo run:
// the out-of-scope collaborator spec.md §1 keeps outside the optimization
// core, exposing run progress and Prometheus metrics to operators.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaman-labs/bbo/internal/infra/store"
)

// Server is the bbo status/metrics HTTP server.
type Server struct {
	db             *store.DB
	metricsEnabled bool
	latest         *RunStatus
}

// RunStatus is the latest run snapshot the server reports at /api/status.
type RunStatus struct {
	RunID       string  `json:"run_id"`
	Iteration   int     `json:"iteration"`
	BestFitness float64 `json:"best_fitness"`
	Done        bool    `json:"done"`
}

// NewServer creates a new API server over db, which may be nil if run
// persistence is disabled.
func NewServer(db *store.DB) *Server {
	return &Server{db: db}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetStatus updates the latest run snapshot reported at /api/status.
func (s *Server) SetStatus(status RunStatus) { s.latest = &status }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if s.latest == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "no run yet"})
			return
		}
		writeJSON(w, http.StatusOK, s.latest)
	})

	r.Get("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		if s.db == nil {
			writeError(w, http.StatusServiceUnavailable, "run history store not configured")
			return
		}
		runs, err := s.db.ListRuns(20)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
		},
	})
}
