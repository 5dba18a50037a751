// Package buffer provides a thread-safe drop-oldest ring used to keep a
// bounded history of recent items.
//
// The ring never blocks and never grows: when full, the oldest item is
// silently replaced and counted. That fits its single job of keeping
// the last N decoded messages, where losing old entries under load is
// correct behavior, not a failure.
package buffer

import "sync"

// Ring is a fixed-capacity drop-oldest ring buffer.
type Ring[T any] struct {
	mu      sync.RWMutex
	items   []T
	head    int // next write position
	size    int
	dropped uint64
}

// NewRing creates a ring with the given capacity. Capacities below one
// are raised to one.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends an item, overwriting the oldest entry when full.
func (r *Ring[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size == len(r.items) {
		r.dropped++
	} else {
		r.size++
	}
	r.items[r.head] = item
	r.head = (r.head + 1) % len(r.items)
}

// Snapshot returns the buffered items oldest-first. The returned slice
// is a copy; mutating it does not affect the ring.
func (r *Ring[T]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, r.size)
	start := (r.head - r.size + len(r.items)) % len(r.items)
	for i := 0; i < r.size; i++ {
		out = append(out, r.items[(start+i)%len(r.items)])
	}
	return out
}

// Len returns the current number of buffered items.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Dropped returns how many items have been overwritten since creation.
func (r *Ring[T]) Dropped() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dropped
}
