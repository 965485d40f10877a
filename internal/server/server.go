// Package server exposes the scorer over HTTP: a health probe, a
// single-record prediction route and a bulk route. Every served or
// refused prediction produces an audit record; audit failures are
// logged, never surfaced to the caller.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/crimson-sun/tenure/internal/audit"
	"github.com/crimson-sun/tenure/internal/scorer"
	"github.com/crimson-sun/tenure/internal/schema"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
)

// Server wires the prediction routes onto an http.Server.
type Server struct {
	scorer *scorer.Scorer
	reg    *schema.Registry
	sink   audit.Sink
	logger *slog.Logger
	http   *http.Server
}

// New creates a Server listening on addr. sink may be nil to disable
// auditing (tests, local runs).
func New(addr string, sc *scorer.Scorer, reg *schema.Registry, sink audit.Sink, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{scorer: sc, reg: reg, sink: sink, logger: logger}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}
	return s
}

// Handler returns the route table. Exposed for httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /predict/bulk", s.handlePredictBulk)
	return mux
}

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes the audit sink.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if s.sink != nil {
		if cerr := s.sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// audit writes one record, logging failures instead of returning them.
func (s *Server) audit(ctx context.Context, rec audit.Record) {
	if s.sink == nil {
		return
	}
	rec.Time = time.Now().UTC()
	if err := s.sink.Write(ctx, rec); err != nil {
		s.logger.Warn("audit write failed", "error", err, "employee_id", rec.EmployeeID)
	}
}
