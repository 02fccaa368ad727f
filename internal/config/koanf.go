// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/scopeplot/config.yaml",
	"/etc/scopeplot/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values set.
func defaultConfig() *Config {
	return &Config{
		Plot: PlotConfig{
			Host:           "0.0.0.0",
			Port:           5001,
			AllowedOrigins: []string{},
			Title:          "Scopeplot",
		},
		Render: RenderConfig{
			RefreshInterval: 100 * time.Millisecond,
		},
		Ingest: IngestConfig{
			Host:         "0.0.0.0",
			Port:         5002,
			MaxBodyBytes: 4096,
			CORSOrigins:  []string{"*"},
		},
		Buffer: BufferConfig{
			Capacity: 1023,
		},
		Proxy: ProxyConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
		},
		Server: ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     600,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in values
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables
	// SCOPE_POINTS -> buffer.capacity, PLOT_PORT -> plot.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.deriveUpstreams()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"plot.allowed_origins",
	"ingest.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML files already yield slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		trimmed := splitList(strVal)
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Plot server
	"plot_host":            "plot.host",
	"plot_port":            "plot.port",
	"plot_allowed_origins": "plot.allowed_origins",
	"plot_title":           "plot.title",

	// Renderer
	"render_refresh_interval": "render.refresh_interval",

	// Ingest server
	"ingest_host":           "ingest.host",
	"ingest_port":           "ingest.port",
	"ingest_max_body_bytes": "ingest.max_body_bytes",
	"ingest_cors_origins":   "ingest.cors_origins",

	// Buffer
	"scope_points": "buffer.capacity",

	// Proxy
	"proxy_enabled":         "proxy.enabled",
	"proxy_host":            "proxy.host",
	"proxy_port":            "proxy.port",
	"proxy_plot_upstream":   "proxy.plot_upstream",
	"proxy_ingest_upstream": "proxy.ingest_upstream",

	// HTTP timeouts
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Rate limiting
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so unrelated environment
// variables never leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
