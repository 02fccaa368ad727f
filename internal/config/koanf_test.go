// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// isolateEnv clears every mapped variable and points CONFIG_PATH at a
// missing file so the working directory's config files are not picked up.
func isolateEnv(t *testing.T) {
	t.Helper()
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Chdir(t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Plot.Port != 5001 {
		t.Errorf("Plot.Port = %d, want 5001", cfg.Plot.Port)
	}
	if cfg.Ingest.Port != 5002 {
		t.Errorf("Ingest.Port = %d, want 5002", cfg.Ingest.Port)
	}
	if cfg.Buffer.Capacity != 1023 {
		t.Errorf("Buffer.Capacity = %d, want 1023", cfg.Buffer.Capacity)
	}
	if cfg.Render.RefreshInterval != 100*time.Millisecond {
		t.Errorf("Render.RefreshInterval = %v, want 100ms", cfg.Render.RefreshInterval)
	}
	if cfg.Ingest.MaxBodyBytes != 4096 {
		t.Errorf("Ingest.MaxBodyBytes = %d, want 4096", cfg.Ingest.MaxBodyBytes)
	}
	if diff := cmp.Diff([]string{"*"}, cfg.Ingest.CORSOrigins); diff != "" {
		t.Errorf("Ingest.CORSOrigins mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Plot.AllowedOrigins) != 0 {
		t.Errorf("Plot.AllowedOrigins = %v, want empty", cfg.Plot.AllowedOrigins)
	}
	if !cfg.Proxy.Enabled || cfg.Proxy.Port != 8080 {
		t.Errorf("Proxy = %+v, want enabled on 8080", cfg.Proxy)
	}
	if cfg.Security.RateLimitReqs != 600 || cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("Security = %+v, want 600/1m", cfg.Security)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"SCOPE_POINTS", "buffer.capacity"},
		{"PLOT_PORT", "plot.port"},
		{"PLOT_ALLOWED_ORIGINS", "plot.allowed_origins"},
		{"INGEST_CORS_ORIGINS", "ingest.cors_origins"},
		{"RENDER_REFRESH_INTERVAL", "render.refresh_interval"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanfDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Proxy.PlotUpstream != "http://127.0.0.1:5001" {
		t.Errorf("Proxy.PlotUpstream = %q, want http://127.0.0.1:5001", cfg.Proxy.PlotUpstream)
	}
	if cfg.Proxy.IngestUpstream != "http://127.0.0.1:5002" {
		t.Errorf("Proxy.IngestUpstream = %q, want http://127.0.0.1:5002", cfg.Proxy.IngestUpstream)
	}
	if cfg.Plot.Addr() != "0.0.0.0:5001" {
		t.Errorf("Plot.Addr() = %q", cfg.Plot.Addr())
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SCOPE_POINTS", "50")
	t.Setenv("PLOT_PORT", "7001")
	t.Setenv("PLOT_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RENDER_REFRESH_INTERVAL", "250ms")
	t.Setenv("DISABLE_RATE_LIMIT", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Buffer.Capacity != 50 {
		t.Errorf("Buffer.Capacity = %d, want 50", cfg.Buffer.Capacity)
	}
	if cfg.Plot.Port != 7001 {
		t.Errorf("Plot.Port = %d, want 7001", cfg.Plot.Port)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.Plot.AllowedOrigins); diff != "" {
		t.Errorf("Plot.AllowedOrigins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Render.RefreshInterval != 250*time.Millisecond {
		t.Errorf("Render.RefreshInterval = %v, want 250ms", cfg.Render.RefreshInterval)
	}
	if !cfg.Security.RateLimitDisabled {
		t.Error("Security.RateLimitDisabled = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Proxy.PlotUpstream != "http://127.0.0.1:7001" {
		t.Errorf("Proxy.PlotUpstream = %q, want derived from PLOT_PORT", cfg.Proxy.PlotUpstream)
	}

	// Unset values keep their defaults.
	if cfg.Ingest.Port != 5002 {
		t.Errorf("Ingest.Port = %d, want 5002 (default)", cfg.Ingest.Port)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv(ConfigPathEnvVar, writeConfigFile(t, `
plot:
  title: "Bench scope"
  allowed_origins:
    - "*"
buffer:
  capacity: 200
proxy:
  enabled: false
`))

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Plot.Title != "Bench scope" {
		t.Errorf("Plot.Title = %q, want Bench scope", cfg.Plot.Title)
	}
	if !cfg.AllowsAnyOrigin() {
		t.Errorf("AllowsAnyOrigin() = false for %v", cfg.Plot.AllowedOrigins)
	}
	if cfg.Buffer.Capacity != 200 {
		t.Errorf("Buffer.Capacity = %d, want 200", cfg.Buffer.Capacity)
	}
	if cfg.Proxy.Enabled {
		t.Error("Proxy.Enabled = true, want false from file")
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv(ConfigPathEnvVar, writeConfigFile(t, "buffer:\n  capacity: 200\n"))
	t.Setenv("SCOPE_POINTS", "300")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Buffer.Capacity != 300 {
		t.Errorf("Buffer.Capacity = %d, want 300 (env wins)", cfg.Buffer.Capacity)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"zero capacity", map[string]string{"SCOPE_POINTS": "0"}, "SCOPE_POINTS"},
		{"bad plot port", map[string]string{"PLOT_PORT": "70000"}, "PLOT_PORT"},
		{"tiny refresh", map[string]string{"RENDER_REFRESH_INTERVAL": "1ms"}, "RENDER_REFRESH_INTERVAL"},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"bad upstream", map[string]string{"PROXY_PLOT_UPSTREAM": "ftp://x"}, "PROXY_PLOT_UPSTREAM"},
		{"bad rate limit", map[string]string{"RATE_LIMIT_REQUESTS": "0"}, "RATE_LIMIT_REQUESTS"},
		{"small body cap", map[string]string{"INGEST_MAX_BODY_BYTES": "8"}, "INGEST_MAX_BODY_BYTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() error = nil, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProxyDisabledSkipsUpstreams(t *testing.T) {
	cfg := defaultConfig()
	cfg.Proxy.Enabled = false
	cfg.Proxy.PlotUpstream = "not a url"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil with proxy disabled", err)
	}
}

func TestLoopbackURL(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 5001, "http://127.0.0.1:5001"},
		{"", 5002, "http://127.0.0.1:5002"},
		{"::", 80, "http://127.0.0.1:80"},
		{"plot.internal", 9000, "http://plot.internal:9000"},
	}
	for _, tt := range tests {
		if got := loopbackURL(tt.host, tt.port); got != tt.want {
			t.Errorf("loopbackURL(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}
