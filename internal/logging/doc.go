// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

// Package logging provides centralized zerolog-based structured logging for Scopeplot.
//
// Every component logs through the package-level helpers so that the plot
// server, the ingestion server, the proxy, the renderer and the supervisor
// share one output stream and one level setting.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("capacity", 1023).Msg("buffer ready")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("rejected point")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Request Tracing
//
// The chi middleware in internal/api stores a request ID and a short
// correlation ID in the request context; Ctx(ctx) adds both to every line.
//
// # Suture Integration
//
// NewSlogLogger bridges zerolog to log/slog so sutureslog can report
// service restarts and backoff through the same logger:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//	spec := suture.Spec{EventHook: handler.MustHook()}
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// event is never written.
package logging
