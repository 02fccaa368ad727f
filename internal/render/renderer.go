// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package render

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/scopeplot/internal/buffer"
	"github.com/tomtom215/scopeplot/internal/logging"
	"github.com/tomtom215/scopeplot/internal/metrics"
)

// DefaultRefreshInterval matches a 10 Hz redraw.
const DefaultRefreshInterval = 100 * time.Millisecond

// Source is the read side of the shared buffer.
type Source interface {
	ViewSince(seq uint64, seen bool) buffer.View
	Cap() int
}

// Broadcaster delivers frames to connected browsers.
type Broadcaster interface {
	BroadcastFrame(frame interface{})
}

// Config holds renderer settings.
type Config struct {
	RefreshInterval time.Duration
	Title           string
}

// Renderer publishes buffer changes as frames.
type Renderer struct {
	src      Source
	out      Broadcaster
	interval time.Duration
	title    string

	mu      sync.Mutex
	lastSeq uint64
	seen    bool
}

// New creates a renderer reading from src and publishing to out. out may be
// nil, in which case Run only advances the cursor.
func New(src Source, out Broadcaster, cfg Config) *Renderer {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	return &Renderer{
		src:      src,
		out:      out,
		interval: cfg.RefreshInterval,
		title:    cfg.Title,
	}
}

// Tick builds the next frame and advances the cursor. ok is false when the
// buffer has nothing the renderer has not already published.
func (r *Renderer) Tick() (frame Frame, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := r.src.ViewSince(r.lastSeq, r.seen)
	pts := view.Points
	if !view.Reset && len(pts) == 0 {
		return Frame{}, false
	}

	kind := KindAppend
	if view.Reset {
		kind = KindSnapshot
	}
	frame = newFrame(kind, pts, r.src.Cap())
	frame.Stats = computeStats(view.All)
	frame.Stats.Evicted = view.Evicted

	r.seen = true
	if len(pts) > 0 {
		r.lastSeq = pts[len(pts)-1].Seq
	}
	return frame, true
}

// SnapshotFrame returns a snapshot frame of the whole buffer without moving
// the cursor. It is sent to browsers when they connect.
func (r *Renderer) SnapshotFrame() Frame {
	view := r.src.ViewSince(0, false)
	frame := newFrame(KindSnapshot, view.All, r.src.Cap())
	frame.Stats = computeStats(view.All)
	frame.Stats.Evicted = view.Evicted
	return frame
}

// Run ticks every refresh interval until ctx is done, then returns ctx.Err().
func (r *Renderer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log := logging.WithComponent("renderer")
	log.Info().Dur("interval", r.interval).Msg("renderer started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("renderer stopped")
			return ctx.Err()
		case <-ticker.C:
			r.step()
		}
	}
}

func (r *Renderer) step() {
	start := time.Now()
	frame, ok := r.Tick()
	if !ok {
		metrics.RecordRenderTick("idle", time.Since(start))
		return
	}
	if r.out != nil {
		r.out.BroadcastFrame(frame)
	}
	metrics.RecordRenderTick(frame.Kind, time.Since(start))
}

// Interval returns the refresh interval.
func (r *Renderer) Interval() time.Duration {
	return r.interval
}
