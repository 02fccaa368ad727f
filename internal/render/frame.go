// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package render

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/scopeplot/internal/buffer"
)

// Frame kinds.
const (
	KindSnapshot = "snapshot"
	KindAppend   = "append"
)

// Frame is one chart update.
type Frame struct {
	Kind     string       `json:"kind"`
	Points   [][2]float64 `json:"points"`
	FirstSeq uint64       `json:"first_seq"`
	Seq      uint64       `json:"seq"`
	Capacity int          `json:"capacity"`
	Stats    Stats        `json:"stats"`
}

// Stats summarises the y values currently held by the buffer.
type Stats struct {
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Evicted uint64  `json:"evicted"`
}

// newFrame builds a frame from pts. Points is never nil so it encodes as [].
func newFrame(kind string, pts []buffer.Point, capacity int) Frame {
	f := Frame{
		Kind:     kind,
		Points:   make([][2]float64, len(pts)),
		Capacity: capacity,
	}
	for i, p := range pts {
		f.Points[i] = [2]float64{p.X, p.Y}
	}
	if len(pts) > 0 {
		f.FirstSeq = pts[0].Seq
		f.Seq = pts[len(pts)-1].Seq
	}
	return f
}

// computeStats returns y statistics for pts. Every field is finite: an
// empty slice yields zeros and a single point has zero deviation.
func computeStats(pts []buffer.Point) Stats {
	if len(pts) == 0 {
		return Stats{}
	}

	ys := make([]float64, len(pts))
	for i, p := range pts {
		ys[i] = p.Y
	}

	s := Stats{
		Count: len(ys),
		Min:   floats.Min(ys),
		Max:   floats.Max(ys),
	}
	if len(ys) == 1 {
		s.Mean = ys[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(ys, nil)
	return s
}
