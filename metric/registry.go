package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Ender-Wang/Swifka-sub000/errors"
)

// MetricsRegistrar is the interface components use to register their own
// metrics without holding the full registry.
type MetricsRegistrar interface {
	RegisterCounter(component, metricName string, counter prometheus.Counter) error
	RegisterGauge(component, metricName string, gauge prometheus.Gauge) error
	RegisterHistogram(component, metricName string, histogram prometheus.Histogram) error
	RegisterCounterVec(component, metricName string, counterVec *prometheus.CounterVec) error
	RegisterGaugeVec(component, metricName string, gaugeVec *prometheus.GaugeVec) error
	RegisterHistogramVec(component, metricName string, histogramVec *prometheus.HistogramVec) error
	Unregister(component, metricName string) bool
}

// MetricsRegistry owns a private Prometheus registry carrying the core
// decode metrics plus any component-registered collectors. Keeping the
// registry private (never prometheus.DefaultRegisterer) lets tests create
// isolated instances.
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics

	mu                sync.RWMutex
	registeredMetrics map[string]prometheus.Collector
}

// NewMetricsRegistry creates a registry pre-populated with the core
// decode metrics and Go runtime collectors.
func NewMetricsRegistry() *MetricsRegistry {
	r := &MetricsRegistry{
		prometheusRegistry: prometheus.NewRegistry(),
		Metrics:            NewMetrics(),
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	r.prometheusRegistry.MustRegister(r.Metrics.collectors()...)
	r.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// PrometheusRegistry returns the underlying Prometheus registry for
// handler wiring.
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the shared decode-pipeline metrics.
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// register is the single registration path behind the typed Register*
// methods. The component.metricName key enforces uniqueness at this
// layer before Prometheus sees the collector.
func (r *MetricsRegistry) register(component, metricName, method string, c prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := component + "." + metricName
	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for component %s", metricName, component),
			"MetricsRegistry", method, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(c); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "MetricsRegistry", method,
				fmt.Sprintf("prometheus conflict for metric %s", metricName))
		}
		return errors.WrapFatal(err, "MetricsRegistry", method, "prometheus registration failed")
	}

	r.registeredMetrics[key] = c
	return nil
}

// RegisterCounter registers a counter metric for a component.
func (r *MetricsRegistry) RegisterCounter(component, metricName string, counter prometheus.Counter) error {
	return r.register(component, metricName, "RegisterCounter", counter)
}

// RegisterGauge registers a gauge metric for a component.
func (r *MetricsRegistry) RegisterGauge(component, metricName string, gauge prometheus.Gauge) error {
	return r.register(component, metricName, "RegisterGauge", gauge)
}

// RegisterHistogram registers a histogram metric for a component.
func (r *MetricsRegistry) RegisterHistogram(component, metricName string, histogram prometheus.Histogram) error {
	return r.register(component, metricName, "RegisterHistogram", histogram)
}

// RegisterCounterVec registers a counter vector metric for a component.
func (r *MetricsRegistry) RegisterCounterVec(component, metricName string, counterVec *prometheus.CounterVec) error {
	return r.register(component, metricName, "RegisterCounterVec", counterVec)
}

// RegisterGaugeVec registers a gauge vector metric for a component.
func (r *MetricsRegistry) RegisterGaugeVec(component, metricName string, gaugeVec *prometheus.GaugeVec) error {
	return r.register(component, metricName, "RegisterGaugeVec", gaugeVec)
}

// RegisterHistogramVec registers a histogram vector metric for a component.
func (r *MetricsRegistry) RegisterHistogramVec(component, metricName string, histogramVec *prometheus.HistogramVec) error {
	return r.register(component, metricName, "RegisterHistogramVec", histogramVec)
}

// Unregister removes a component metric. Returns false if the metric was
// never registered.
func (r *MetricsRegistry) Unregister(component, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := component + "." + metricName
	collector, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	if !r.prometheusRegistry.Unregister(collector) {
		return false
	}
	delete(r.registeredMetrics, key)
	return true
}
