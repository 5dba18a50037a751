package schemacache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ender-Wang/Swifka-sub000/metric"
)

// cacheMetrics mirrors the always-on statistics into Prometheus when the
// caller opts in with WithMetrics.
type cacheMetrics struct {
	hits    prometheus.Counter
	misses  prometheus.Counter
	sets    prometheus.Counter
	deletes prometheus.Counter
	size    prometheus.Gauge
}

func newCacheMetrics(registry *metric.MetricsRegistry, component string) (*cacheMetrics, error) {
	labels := prometheus.Labels{"component": component}
	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "wirelens",
			Subsystem:   "schemacache",
			Name:        "hits_total",
			ConstLabels: labels,
			Help:        "Schema cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "wirelens",
			Subsystem:   "schemacache",
			Name:        "misses_total",
			ConstLabels: labels,
			Help:        "Schema cache misses",
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "wirelens",
			Subsystem:   "schemacache",
			Name:        "sets_total",
			ConstLabels: labels,
			Help:        "Schema cache stores",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "wirelens",
			Subsystem:   "schemacache",
			Name:        "deletes_total",
			ConstLabels: labels,
			Help:        "Schema cache invalidations",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "wirelens",
			Subsystem:   "schemacache",
			Name:        "size",
			ConstLabels: labels,
			Help:        "Cached schema count",
		}),
	}

	if err := registry.RegisterCounter(component, "cache_hits", m.hits); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(component, "cache_misses", m.misses); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(component, "cache_sets", m.sets); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(component, "cache_deletes", m.deletes); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(component, "cache_size", m.size); err != nil {
		return nil, err
	}
	return m, nil
}
