// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values for every setting
//  2. Config File: Optional YAML config file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Servers:
//     - Plot: chart page, live WebSocket channel, snapshot and metrics
//     - Ingest: the POST /data endpoint
//     - Proxy: single public port multiplexing plot and ingest
//
//  2. Data path:
//     - Buffer: fixed capacity of the shared point buffer
//     - Render: refresh interval of the redraw loop
//
//  3. Shared:
//     - Server: HTTP timeouts used by every listener
//     - Security: rate limiting for page and WebSocket routes
//     - Logging: level, format and caller info
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Plot     PlotConfig     `koanf:"plot"`
	Render   RenderConfig   `koanf:"render"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Buffer   BufferConfig   `koanf:"buffer"`
	Proxy    ProxyConfig    `koanf:"proxy"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PlotConfig configures the plotting server.
type PlotConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// AllowedOrigins lists origins permitted to open the live WebSocket.
	// "*" allows any origin; an empty list allows only the request's own host.
	AllowedOrigins []string `koanf:"allowed_origins"`

	Title string `koanf:"title"`
}

// RenderConfig configures the periodic redraw loop.
type RenderConfig struct {
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// IngestConfig configures the ingestion server.
type IngestConfig struct {
	Host         string   `koanf:"host"`
	Port         int      `koanf:"port"`
	MaxBodyBytes int64    `koanf:"max_body_bytes"`
	CORSOrigins  []string `koanf:"cors_origins"`
}

// BufferConfig sizes the shared point buffer.
type BufferConfig struct {
	Capacity int `koanf:"capacity"`
}

// ProxyConfig configures the reverse proxy. Empty upstreams are derived from
// the plot and ingest ports.
type ProxyConfig struct {
	Enabled        bool   `koanf:"enabled"`
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`
	PlotUpstream   string `koanf:"plot_upstream"`
	IngestUpstream string `koanf:"ingest_upstream"`
}

// ServerConfig holds HTTP timeouts shared by all listeners.
type ServerConfig struct {
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds rate limiting for the plot page and WebSocket upgrade.
// Ingestion is never rate limited.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the plot server listen address.
func (p PlotConfig) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Addr returns the ingest server listen address.
func (i IngestConfig) Addr() string {
	return net.JoinHostPort(i.Host, strconv.Itoa(i.Port))
}

// Addr returns the proxy listen address.
func (p ProxyConfig) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Load is an alias for LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// deriveUpstreams fills empty proxy upstreams with loopback URLs of the local
// plot and ingest servers.
func (c *Config) deriveUpstreams() {
	if c.Proxy.PlotUpstream == "" {
		c.Proxy.PlotUpstream = loopbackURL(c.Plot.Host, c.Plot.Port)
	}
	if c.Proxy.IngestUpstream == "" {
		c.Proxy.IngestUpstream = loopbackURL(c.Ingest.Host, c.Ingest.Port)
	}
}

func loopbackURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))
}
