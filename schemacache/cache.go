package schemacache

import (
	"sync"

	"github.com/Ender-Wang/Swifka-sub000/errors"
	"github.com/Ender-Wang/Swifka-sub000/metric"
)

// EvictCallback runs when an entry leaves the cache through Delete or
// Clear. It receives the key and the stored value.
type EvictCallback[V any] func(key string, value V)

// Option configures a Cache at construction time.
type Option[V any] func(*options[V])

type options[V any] struct {
	registry  *metric.MetricsRegistry
	component string
	evictFn   EvictCallback[V]
}

// WithMetrics exposes the cache's statistics as Prometheus metrics on
// the given registry, labeled by component name.
func WithMetrics[V any](registry *metric.MetricsRegistry, component string) Option[V] {
	return func(o *options[V]) {
		o.registry = registry
		o.component = component
	}
}

// WithEvictCallback installs a callback invoked for every evicted entry.
func WithEvictCallback[V any](fn EvictCallback[V]) Option[V] {
	return func(o *options[V]) {
		o.evictFn = fn
	}
}

// Cache is a thread-safe store of parsed schemas keyed by caller-chosen
// identity (topic name, file path, registry subject). There is no
// eviction policy: schemas live until explicitly invalidated, which
// matches their lifecycle: a schema changes when the caller says it
// changed, not with time or memory pressure.
//
// The cache is an explicit object owned by its caller. Nothing in this
// module holds process-wide schema state.
type Cache[V any] struct {
	mu      sync.RWMutex
	items   map[string]V
	stats   *Statistics
	metrics *cacheMetrics
	evictFn EvictCallback[V]
}

// New creates a cache. Statistics are always on; Prometheus export is
// opt-in via WithMetrics. Returns an error only when metrics
// registration fails.
func New[V any](opts ...Option[V]) (*Cache[V], error) {
	var o options[V]
	for _, opt := range opts {
		opt(&o)
	}

	var metrics *cacheMetrics
	if o.registry != nil && o.component != "" {
		var err error
		metrics, err = newCacheMetrics(o.registry, o.component)
		if err != nil {
			return nil, errors.WrapTransient(err, "schemacache", "New", "metrics registration")
		}
	}

	return &Cache[V]{
		items:   make(map[string]V),
		stats:   NewStatistics(),
		metrics: metrics,
		evictFn: o.evictFn,
	}, nil
}

// Get retrieves a schema by key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	value, exists := c.items[key]
	c.mu.RUnlock()

	if exists {
		c.stats.Hit()
		if c.metrics != nil {
			c.metrics.hits.Inc()
		}
	} else {
		c.stats.Miss()
		if c.metrics != nil {
			c.metrics.misses.Inc()
		}
	}
	return value, exists
}

// Set stores a schema. Returns true if the key was new.
func (c *Cache[V]) Set(key string, value V) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	_, exists := c.items[key]
	c.items[key] = value
	size := len(c.items)
	c.mu.Unlock()

	c.stats.Set()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.sets.Inc()
		c.metrics.size.Set(float64(size))
	}
	return !exists, nil
}

// Delete invalidates one schema. The eviction callback, if installed,
// runs after the lock is released with the value that was stored.
func (c *Cache[V]) Delete(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	value, exists := c.items[key]
	if exists {
		delete(c.items, key)
	}
	size := len(c.items)
	c.mu.Unlock()

	if !exists {
		return false, nil
	}

	c.stats.Delete()
	c.stats.UpdateSize(int64(size))
	if c.metrics != nil {
		c.metrics.deletes.Inc()
		c.metrics.size.Set(float64(size))
	}
	if c.evictFn != nil {
		c.evictFn(key, value)
	}
	return true, nil
}

// Clear invalidates everything, running the eviction callback per entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	evicted := c.items
	c.items = make(map[string]V)
	c.mu.Unlock()

	if c.evictFn != nil {
		for key, value := range evicted {
			c.evictFn(key, value)
		}
	}

	c.stats.UpdateSize(0)
	if c.metrics != nil {
		c.metrics.size.Set(0)
	}
}

// Size returns the current number of cached schemas.
func (c *Cache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Keys returns all cached keys in unspecified order.
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns the always-on statistics tracker.
func (c *Cache[V]) Stats() *Statistics {
	return c.stats
}

func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "schemacache", "validateKey", "key cannot be empty")
	}
	return nil
}
