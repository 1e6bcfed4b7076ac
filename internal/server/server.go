// Package server exposes the trip planner over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/logger"
	"github.com/julianstephens/tachoplan/internal/observability"
	"github.com/julianstephens/tachoplan/internal/planner"
)

// NewRouter wires the HTTP handlers. metrics may be nil, in which case
// /metrics serves the default registry and nothing is recorded.
func NewRouter(p *planner.Planner, metrics *observability.PlanCollector) http.Handler {
	mux := http.NewServeMux()

	plan := &planHandler{planner: p, metrics: metrics}

	mux.HandleFunc("/healthz", Health)
	mux.HandleFunc("/v1/trips/plan", plan.Plan)
	mux.Handle("/metrics", metrics.Handler())

	return loggingMiddleware(mux)
}

// New builds an http.Server with the standard timeouts.
func New(addr string, handler http.Handler) *http.Server {
	if addr == "" {
		addr = constants.DefaultServeAddr
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: constants.ServerReadTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      constants.ServerWriteTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
	}
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down, waiting up to the shutdown grace period for open requests.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownGrace)
	defer cancel()

	logger.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// ListenAndServe listens on srv.Addr and calls Serve.
func ListenAndServe(ctx context.Context, srv *http.Server) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	return Serve(ctx, srv, ln)
}
