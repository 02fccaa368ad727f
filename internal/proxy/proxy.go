// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scopeplot/internal/logging"
	"github.com/tomtom215/scopeplot/internal/metrics"
)

// Upstream names used in logs and metric labels.
const (
	UpstreamPlot   = "plot"
	UpstreamIngest = "ingest"
)

// ErrInvalidUpstream is returned by New for a URL without scheme or host.
var ErrInvalidUpstream = errors.New("invalid upstream URL")

// Proxy routes /data and /data/* to the ingest upstream and everything else
// to the plot upstream. WebSocket upgrades pass through.
type Proxy struct {
	plot   *httputil.ReverseProxy
	ingest *httputil.ReverseProxy
}

// New creates a proxy for the two upstream base URLs.
func New(plotURL, ingestURL string) (*Proxy, error) {
	plotTarget, err := parseUpstream(plotURL)
	if err != nil {
		return nil, fmt.Errorf("plot upstream: %w", err)
	}
	ingestTarget, err := parseUpstream(ingestURL)
	if err != nil {
		return nil, fmt.Errorf("ingest upstream: %w", err)
	}

	return &Proxy{
		plot:   newReverseProxy(UpstreamPlot, plotTarget),
		ingest: newReverseProxy(UpstreamIngest, ingestTarget),
	}, nil
}

func parseUpstream(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidUpstream, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w %q: need http(s)://host[:port]", ErrInvalidUpstream, raw)
	}
	return u, nil
}

// newReverseProxy forwards to target, keeping the inbound Host header so the
// plot server's same-host origin check sees the public host.
func newReverseProxy(name string, target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = pr.In.Host
			pr.SetXForwarded()
		},
		ModifyResponse: func(*http.Response) error {
			metrics.RecordProxy(name, false)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			metrics.RecordProxy(name, true)
			logging.Ctx(r.Context()).Error().
				Err(err).
				Str("upstream", name).
				Str("path", logging.SanitizeValue(r.URL.Path)).
				Msg("Upstream request failed")
			writeBadGateway(w)
		},
	}
}

// Route returns the upstream name for a request path.
func Route(path string) string {
	if path == "/data" || strings.HasPrefix(path, "/data/") {
		return UpstreamIngest
	}
	return UpstreamPlot
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if Route(r.URL.Path) == UpstreamIngest {
		p.ingest.ServeHTTP(w, r)
		return
	}
	p.plot.ServeHTTP(w, r)
}

var badGatewayBody, _ = json.Marshal(map[string]string{
	"status":  "error",
	"message": "upstream unavailable",
})

func writeBadGateway(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write(badGatewayBody)
}
