// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

/*
Package config loads and validates Scopeplot configuration.

# Configuration Sources

Values are layered with Koanf v2, later layers winning:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, then config.yaml, config.yml, /etc/scopeplot/config.yaml
  - Environment variables, mapped explicitly (unknown variables are ignored)

# Environment Variables

	PLOT_HOST, PLOT_PORT              plot server listen address (0.0.0.0:5001)
	PLOT_ALLOWED_ORIGINS              comma list of WebSocket origins; "*" for any; empty = same host
	PLOT_TITLE                        chart title
	RENDER_REFRESH_INTERVAL           redraw period (100ms)
	INGEST_HOST, INGEST_PORT          ingest server listen address (0.0.0.0:5002)
	INGEST_MAX_BODY_BYTES             request body cap for POST /data (4096)
	INGEST_CORS_ORIGINS               comma list of CORS origins for ingest ("*")
	SCOPE_POINTS                      buffer capacity (1023)
	PROXY_ENABLED, PROXY_PORT         reverse proxy (true, 8080)
	PROXY_PLOT_UPSTREAM               plot upstream URL (derived from PLOT_PORT)
	PROXY_INGEST_UPSTREAM             ingest upstream URL (derived from INGEST_PORT)
	HTTP_READ_TIMEOUT                 15s
	HTTP_WRITE_TIMEOUT                15s
	HTTP_IDLE_TIMEOUT                 60s
	HTTP_SHUTDOWN_TIMEOUT             10s
	RATE_LIMIT_REQUESTS               page/WebSocket requests per window (600)
	RATE_LIMIT_WINDOW                 1m
	DISABLE_RATE_LIMIT                false
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER info, json, false

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("invalid configuration")
	}
	srv := &http.Server{Addr: cfg.Plot.Addr()}

Config is immutable after Load and safe for concurrent reads.
*/
package config
