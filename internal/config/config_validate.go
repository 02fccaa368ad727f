// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate checks that the configuration is complete and within bounds.
func (c *Config) Validate() error {
	if err := c.validatePlot(); err != nil {
		return err
	}

	if err := c.validateRender(); err != nil {
		return err
	}

	if err := c.validateIngest(); err != nil {
		return err
	}

	if err := c.validateBuffer(); err != nil {
		return err
	}

	if err := c.validateProxy(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

func validatePort(port int, envName string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535", envName)
	}
	return nil
}

func (c *Config) validatePlot() error {
	if err := validatePort(c.Plot.Port, "PLOT_PORT"); err != nil {
		return err
	}
	if c.Plot.Title == "" {
		return fmt.Errorf("PLOT_TITLE must not be empty")
	}
	return nil
}

const (
	minRefreshInterval = 10 * time.Millisecond
	maxRefreshInterval = time.Minute
)

func (c *Config) validateRender() error {
	if c.Render.RefreshInterval < minRefreshInterval || c.Render.RefreshInterval > maxRefreshInterval {
		return fmt.Errorf("RENDER_REFRESH_INTERVAL must be between %v and %v", minRefreshInterval, maxRefreshInterval)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if err := validatePort(c.Ingest.Port, "INGEST_PORT"); err != nil {
		return err
	}
	if c.Ingest.MaxBodyBytes < 16 {
		return fmt.Errorf("INGEST_MAX_BODY_BYTES must be at least 16")
	}
	return nil
}

// maxBufferCapacity keeps a full snapshot frame well below the WebSocket
// write deadline on slow links.
const maxBufferCapacity = 1_000_000

func (c *Config) validateBuffer() error {
	if c.Buffer.Capacity < 1 || c.Buffer.Capacity > maxBufferCapacity {
		return fmt.Errorf("SCOPE_POINTS must be between 1 and %d", maxBufferCapacity)
	}
	return nil
}

func (c *Config) validateProxy() error {
	if !c.Proxy.Enabled {
		return nil
	}
	if err := validatePort(c.Proxy.Port, "PROXY_PORT"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.Proxy.PlotUpstream, "PROXY_PLOT_UPSTREAM"); err != nil {
		return err
	}
	return validateHTTPURL(c.Proxy.IngestUpstream, "PROXY_INGEST_UPSTREAM")
}

// validateHTTPURL requires an absolute http or https URL with a host.
func validateHTTPURL(raw, envName string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", envName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme, got %q", envName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", envName)
	}
	return nil
}

func (c *Config) validateServer() error {
	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"HTTP_READ_TIMEOUT", c.Server.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", c.Server.WriteTimeout},
		{"HTTP_IDLE_TIMEOUT", c.Server.IdleTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout},
	}
	for _, to := range timeouts {
		if to.value <= 0 {
			return fmt.Errorf("%s must be positive", to.name)
		}
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting bounds unless rate limiting is disabled.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// AllowsAnyOrigin reports whether the WebSocket origin list contains "*".
func (c *Config) AllowsAnyOrigin() bool {
	for _, origin := range c.Plot.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
