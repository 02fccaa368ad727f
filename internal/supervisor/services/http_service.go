// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/scopeplot/internal/logging"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs one HTTP listener (plot, ingest or proxy) under the
// supervisor. ListenAndServe runs in a goroutine; cancellation triggers a
// graceful Shutdown bounded by shutdownTimeout.
//
//	srv := &http.Server{Addr: cfg.Plot.Addr(), Handler: router.PlotRoutes()}
//	tree.AddAPIService(services.NewHTTPServerService("plot-http", srv, 10*time.Second))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout means 10s.
func NewHTTPServerService(name string, server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	if name == "" {
		name = "http-server"
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            name,
	}
}

// Serve implements suture.Service. A listener failure is returned so the
// supervisor restarts the service; cancellation returns ctx.Err() after a
// graceful shutdown.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	log := logging.WithComponent(h.name)

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if addr := serverAddr(h.server); addr != "" {
		log.Info().Str("addr", addr).Msg("HTTP server starting")
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s failed: %w", h.name, err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s shutdown failed: %w", h.name, err)
		}

		<-errCh
		log.Info().Msg("HTTP server stopped")
		return ctx.Err()
	}
}

// serverAddr returns the listen address when server is an *http.Server.
func serverAddr(server HTTPServer) string {
	if s, ok := server.(*http.Server); ok {
		return s.Addr
	}
	return ""
}

// String implements fmt.Stringer for suture's logs.
func (h *HTTPServerService) String() string {
	return h.name
}
