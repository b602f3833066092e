// Package server exposes the strategy facade over HTTP. The wire shape
// mirrors the facade contract: a request carrying a strategy definition
// plus market context, a response carrying the full result bundle.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"flowmind-engine/internal/engine"
	"flowmind-engine/internal/logging"
	"flowmind-engine/internal/store"
)

// Server is the HTTP API for the options engine.
type Server struct {
	addr      string
	logger    zerolog.Logger
	evaluator *engine.Evaluator
	journal   store.Journal // optional
	http      *http.Server
}

// New creates a new API server. journal may be nil; evaluations are then
// served without being recorded.
func New(addr string, logger zerolog.Logger, evaluator *engine.Evaluator, journal store.Journal) *Server {
	s := &Server{
		addr:      addr,
		logger:    logger,
		evaluator: evaluator,
		journal:   journal,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/strategies", s.handleStrategies)
	mux.HandleFunc("/api/v1/evaluate", s.handleEvaluate)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.addr).Msg("API server listening")
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogRequest(s.logger, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
