// Package server exposes the remediation API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/internal/remediate"
	"github.com/abapscan/abapscan/pkg/shared/config"
)

// Server wires the batch processor into HTTP routes with logging,
// request IDs, and Prometheus instrumentation.
type Server struct {
	cfg       *config.Config
	logger    hclog.Logger
	processor *remediate.Processor
	metrics   *Metrics
}

// New creates a server around an already constructed processor.
func New(cfg *config.Config, logger hclog.Logger, processor *remediate.Processor) *Server {
	return &Server{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
		metrics:   NewMetrics(),
	}
}

// Routes builds the handler chain for all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/remediate-mm-im", s.handleRemediate)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", s.metrics.Handler())

	return Recovery(s.logger)(RequestID(Logging(s.logger)(s.metrics.Instrument(mux))))
}

// Start runs the HTTP server until ctx is canceled, then drains in-flight
// requests within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	failed := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout.String())
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
