// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package feeder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/scopeplot/internal/logging"
	"github.com/tomtom215/scopeplot/internal/metrics"
)

var (
	// ErrRejected is returned when the server answers with a 4xx status.
	// The server is up, so the breaker does not count it as a failure.
	ErrRejected = errors.New("point rejected by server")

	// ErrServer is returned for 5xx responses, including proxy 502s.
	ErrServer = errors.New("server error")

	// ErrInvalidConfig is returned by New for unusable settings.
	ErrInvalidConfig = errors.New("invalid feeder config")
)

// Config controls a Feeder.
type Config struct {
	// URL is the ingestion endpoint, e.g. http://localhost:8080/data.
	URL string

	// Interval between points. Default: 200ms
	Interval time.Duration

	// Count of points to send; 0 sends until the context ends.
	Count int

	// Amplitude bounds y to [-Amplitude, Amplitude]. Default: 100
	Amplitude float64

	// StartX is the first x value; each point adds 1.
	StartX float64

	// RequestTimeout bounds a single POST. Default: 5s
	RequestTimeout time.Duration

	// BreakerName labels breaker metrics. Default: "scopefeed"
	BreakerName string

	// BreakerThreshold is the consecutive failure count that opens the
	// breaker. Default: 5
	BreakerThreshold uint32

	// BreakerTimeout is how long the breaker stays open before probing.
	// Default: 10s
	BreakerTimeout time.Duration

	// Rand returns values in [0, 1). Default: math/rand/v2 Float64
	Rand func() float64
}

// DefaultConfig mirrors the scopefeed flag defaults.
func DefaultConfig() Config {
	return Config{
		URL:              "http://localhost:8080/data",
		Interval:         200 * time.Millisecond,
		Amplitude:        100,
		RequestTimeout:   5 * time.Second,
		BreakerName:      "scopefeed",
		BreakerThreshold: 5,
		BreakerTimeout:   10 * time.Second,
	}
}

// Response is the server's JSON reply.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Feeder posts generated points to an ingestion endpoint.
type Feeder struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[*Response]
	rnd     func() float64
}

// New validates cfg and builds a Feeder. A nil client uses a client with
// cfg.RequestTimeout.
func New(cfg Config, client *http.Client) (*Feeder, error) {
	defaults := DefaultConfig()
	if cfg.Interval == 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = defaults.BreakerName
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = defaults.BreakerThreshold
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url %q must be an absolute http(s) URL", ErrInvalidConfig, cfg.URL)
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if cfg.Count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative", ErrInvalidConfig)
	}
	if cfg.Amplitude < 0 {
		return nil, fmt.Errorf("%w: amplitude must not be negative", ErrInvalidConfig)
	}

	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.Float64
	}

	f := &Feeder{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(cfg.Interval), 1),
		rnd:     rnd,
	}
	f.cb = newBreaker(cfg)
	return f, nil
}

func newBreaker(cfg Config) *gobreaker.CircuitBreaker[*Response] {
	metrics.CircuitBreakerState.WithLabelValues(cfg.BreakerName).Set(metrics.BreakerClosed)

	return gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        cfg.BreakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= cfg.BreakerThreshold
			if trip {
				logging.Warn().Uint32("failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String(), stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	default:
		return metrics.BreakerClosed
	}
}

// State reports the breaker state ("closed", "half-open" or "open").
func (f *Feeder) State() string {
	return f.cb.State().String()
}

// Send posts one point through the breaker. It returns
// gobreaker.ErrOpenState without touching the network while the breaker is
// open.
func (f *Feeder) Send(ctx context.Context, x, y float64) (*Response, error) {
	resp, err := f.cb.Execute(func() (*Response, error) {
		return f.post(ctx, x, y)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(f.cfg.BreakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(f.cfg.BreakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(f.cfg.BreakerName, "failure").Inc()
	}
	return resp, err
}

func (f *Feeder) post(ctx context.Context, x, y float64) (*Response, error) {
	body, err := json.Marshal(point{X: x, Y: y})
	if err != nil {
		return nil, fmt.Errorf("encode point: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", f.cfg.URL, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out Response
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil && httpResp.StatusCode < 300 {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	switch {
	case httpResp.StatusCode >= 500:
		return &out, fmt.Errorf("%w: %d %s", ErrServer, httpResp.StatusCode, out.Message)
	case httpResp.StatusCode >= 400:
		return &out, fmt.Errorf("%w: %d %s", ErrRejected, httpResp.StatusCode, out.Message)
	}
	return &out, nil
}

// Run sends points until Count is reached or ctx ends. Failed sends are
// logged and the sequence continues, so x keeps advancing. Run returns nil
// after Count points and ctx.Err() on cancellation.
func (f *Feeder) Run(ctx context.Context) error {
	log := logging.WithComponent("feeder")
	log.Info().Str("url", f.cfg.URL).Dur("interval", f.cfg.Interval).Int("count", f.cfg.Count).Msg("Starting data transmission")

	x := f.cfg.StartX
	for sent := 0; f.cfg.Count == 0 || sent < f.cfg.Count; sent++ {
		if err := f.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Info().Int("sent", sent).Msg("Stopping data transmission")
				return ctxErr
			}
			return fmt.Errorf("rate limiter: %w", err)
		}

		y := (2*f.rnd() - 1) * f.cfg.Amplitude
		resp, err := f.Send(ctx, x, y)
		switch {
		case err == nil:
			log.Info().Float64("x", x).Float64("y", y).Str("status", resp.Status).Msg("Sent data point")
		case ctx.Err() != nil:
			log.Info().Int("sent", sent).Msg("Stopping data transmission")
			return ctx.Err()
		default:
			log.Warn().Err(err).Float64("x", x).Float64("y", y).Msg("Error sending data")
		}
		x++
	}
	return nil
}
