package schemacache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks cache behavior. Always enabled: schema cache hit
// rates are the first thing to check when decode latency regresses.
type Statistics struct {
	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64

	mu          sync.RWMutex
	startTime   time.Time
	currentSize int64
	maxSize     int64
}

// NewStatistics creates a statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{startTime: time.Now()}
}

// Hit records a cache hit.
func (s *Statistics) Hit() { s.hits.Add(1) }

// Miss records a cache miss.
func (s *Statistics) Miss() { s.misses.Add(1) }

// Set records a set operation.
func (s *Statistics) Set() { s.sets.Add(1) }

// Delete records a delete operation.
func (s *Statistics) Delete() { s.deletes.Add(1) }

// UpdateSize records the current entry count and tracks the high-water
// mark.
func (s *Statistics) UpdateSize(size int64) {
	s.mu.Lock()
	s.currentSize = size
	if size > s.maxSize {
		s.maxSize = size
	}
	s.mu.Unlock()
}

// Hits returns the total hit count.
func (s *Statistics) Hits() int64 { return s.hits.Load() }

// Misses returns the total miss count.
func (s *Statistics) Misses() int64 { return s.misses.Load() }

// Sets returns the total set count.
func (s *Statistics) Sets() int64 { return s.sets.Load() }

// Deletes returns the total delete count.
func (s *Statistics) Deletes() int64 { return s.deletes.Load() }

// CurrentSize returns the current entry count.
func (s *Statistics) CurrentSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}

// MaxSize returns the high-water entry count.
func (s *Statistics) MaxSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize
}

// HitRatio returns hits / (hits + misses), 0 when no lookups happened.
func (s *Statistics) HitRatio() float64 {
	hits := s.Hits()
	total := hits + s.Misses()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Uptime returns how long the cache has existed.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Summary is a point-in-time statistics snapshot.
type Summary struct {
	Hits        int64         `json:"hits"`
	Misses      int64         `json:"misses"`
	Sets        int64         `json:"sets"`
	Deletes     int64         `json:"deletes"`
	CurrentSize int64         `json:"current_size"`
	MaxSize     int64         `json:"max_size"`
	HitRatio    float64       `json:"hit_ratio"`
	Uptime      time.Duration `json:"uptime"`
}

// Snapshot captures all counters at once.
func (s *Statistics) Snapshot() Summary {
	return Summary{
		Hits:        s.Hits(),
		Misses:      s.Misses(),
		Sets:        s.Sets(),
		Deletes:     s.Deletes(),
		CurrentSize: s.CurrentSize(),
		MaxSize:     s.MaxSize(),
		HitRatio:    s.HitRatio(),
		Uptime:      s.Uptime(),
	}
}
