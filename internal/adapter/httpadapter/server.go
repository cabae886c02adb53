// Package httpadapter exposes the service's HTTP surface: health, metrics,
// and read-only forecast endpoints.
package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/pollen-forecast-service/internal/domain"
)

// ForecastSource is the read side of the refresh coordinator.
type ForecastSource interface {
	// Snapshot returns the last successfully fetched forecast, if any.
	Snapshot() (domain.Forecast, bool)

	// LastError returns the most recent refresh failure, or nil.
	LastError() error

	// CheckReadiness reports nil once the initial refresh has completed.
	CheckReadiness(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and forecast HTTP endpoints.
type Server struct {
	httpServer *http.Server
	source     ForecastSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/forecast, and /v1/readouts routes.
func NewServer(addr string, source ForecastSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/readouts", s.handleReadouts)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.source.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleForecast serves the current snapshot. Stale data still serves with
// 200; the last refresh error, if any, rides along in a header so consumers
// can surface it diagnostically.
func (s *Server) handleForecast(w http.ResponseWriter, _ *http.Request) {
	forecast, ok := s.source.Snapshot()
	if !ok {
		resp := map[string]string{"error": "no forecast available"}
		if err := s.source.LastError(); err != nil {
			resp["last_error"] = err.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	if err := s.source.LastError(); err != nil {
		w.Header().Set("X-Forecast-Stale", "true")
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleReadouts(w http.ResponseWriter, _ *http.Request) {
	forecast, ok := s.source.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no forecast available"})
		return
	}
	writeJSON(w, http.StatusOK, forecast.Readouts())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
