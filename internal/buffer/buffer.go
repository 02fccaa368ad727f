// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package buffer

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidCapacity is returned by New when the capacity is less than one.
var ErrInvalidCapacity = errors.New("buffer capacity must be at least 1")

// Point is one (x, y) sample. Seq is assigned by the buffer and increases by
// one for every successful append, starting at 1.
type Point struct {
	Seq uint64  `json:"seq"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// Buffer is a fixed-capacity FIFO of Points.
type Buffer struct {
	mu      sync.RWMutex
	ring    []Point
	head    int // index of the oldest point
	size    int
	nextSeq uint64
	evicted uint64
}

// New creates an empty buffer holding at most capacity points.
func New(capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Buffer{
		ring:    make([]Point, capacity),
		nextSeq: 1,
	}, nil
}

// Append stores (x, y) at the tail and returns the stored point.
// evicted reports whether the oldest point was dropped to make room.
func (b *Buffer) Append(x, y float64) (p Point, evicted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p = Point{Seq: b.nextSeq, X: x, Y: y}
	b.nextSeq++

	capacity := len(b.ring)
	if b.size == capacity {
		// Overwrite the oldest slot and advance head.
		b.ring[b.head] = p
		b.head = (b.head + 1) % capacity
		b.evicted++
		return p, true
	}

	b.ring[(b.head+b.size)%capacity] = p
	b.size++
	return p, false
}

// Snapshot returns a copy of the current contents, oldest first.
func (b *Buffer) Snapshot() []Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.copyFrom(0)
}

// Since returns the points appended after seq.
//
// When seen is false, or when points newer than seq have already been
// evicted, the caller's view cannot be extended consistently: Since then
// returns the full snapshot with reset set to true.
func (b *Buffer) Since(seq uint64, seen bool) (points []Point, reset bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sinceLocked(seq, seen)
}

// View is one consistent read of the buffer.
type View struct {
	// Points and Reset are what Since would return.
	Points []Point
	Reset  bool
	// All is the full contents at the same instant, oldest first.
	All     []Point
	Evicted uint64
}

// ViewSince is Since plus the full contents and eviction count, all taken
// under a single read lock so they describe the same buffer state.
func (b *Buffer) ViewSince(seq uint64, seen bool) View {
	b.mu.RLock()
	defer b.mu.RUnlock()

	points, reset := b.sinceLocked(seq, seen)
	return View{
		Points:  points,
		Reset:   reset,
		All:     b.copyFrom(0),
		Evicted: b.evicted,
	}
}

func (b *Buffer) sinceLocked(seq uint64, seen bool) ([]Point, bool) {
	if b.size == 0 {
		return nil, !seen
	}

	first := b.ring[b.head].Seq
	if !seen || seq+1 < first {
		return b.copyFrom(0), true
	}

	last := b.nextSeq - 1
	if seq >= last {
		return nil, false
	}

	// Sequence numbers are contiguous inside the ring.
	return b.copyFrom(int(seq + 1 - first)), false
}

// Last returns the most recently appended point.
func (b *Buffer) Last() (Point, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return Point{}, false
	}
	return b.ring[(b.head+b.size-1)%len(b.ring)], true
}

// Len returns the number of stored points.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the maximum number of stored points.
func (b *Buffer) Cap() int {
	return len(b.ring)
}

// Evicted returns how many points have been dropped since creation.
func (b *Buffer) Evicted() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.evicted
}

// copyFrom copies the logical range [offset, size) out of the ring.
// Must be called with the lock held.
func (b *Buffer) copyFrom(offset int) []Point {
	n := b.size - offset
	if n <= 0 {
		return []Point{}
	}
	out := make([]Point, n)
	capacity := len(b.ring)
	for i := 0; i < n; i++ {
		out[i] = b.ring[(b.head+offset+i)%capacity]
	}
	return out
}
