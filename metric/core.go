package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wirelens"

// Label values for the decode outcome dimension.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Label values for the decode format dimension.
const (
	FormatProtobuf = "protobuf"
	FormatAvro     = "avro"
)

// Metrics holds the core decode-pipeline metrics. Every consumer shares
// one instance through the registry; per-component metrics register
// separately via the Register* methods.
type Metrics struct {
	// DecodeAttempts counts decode calls by format and outcome.
	DecodeAttempts *prometheus.CounterVec

	// DecodeDuration observes wall time per decode call by format.
	DecodeDuration *prometheus.HistogramVec

	// PayloadBytes observes payload sizes by format.
	PayloadBytes *prometheus.HistogramVec

	// MessagesReceived counts raw messages pulled from the stream before
	// any decode attempt.
	MessagesReceived prometheus.Counter

	// ConsumerConnected is 1 while the stream consumer holds a live
	// connection, 0 otherwise.
	ConsumerConnected prometheus.Gauge

	// ConsumerReconnects counts connection re-establishments.
	ConsumerReconnects prometheus.Counter
}

// NewMetrics creates the core metric set. Collectors are created but not
// registered; NewMetricsRegistry wires them into its registry.
func NewMetrics() *Metrics {
	return &Metrics{
		DecodeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "attempts_total",
			Help:      "Decode attempts by payload format and outcome",
		}, []string{"format", "outcome"}),

		DecodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "duration_seconds",
			Help:      "Decode call duration by payload format",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"format"}),

		PayloadBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "payload_bytes",
			Help:      "Payload size in bytes by format",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}, []string{"format"}),

		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "messages_received_total",
			Help:      "Raw messages received from the stream",
		}),

		ConsumerConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "consumer_connected",
			Help:      "1 while the consumer connection is up",
		}),

		ConsumerReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "consumer_reconnects_total",
			Help:      "Connection re-establishments",
		}),
	}
}

// RecordDecode updates the decode counters and histograms for one call.
func (m *Metrics) RecordDecode(format string, payloadLen int, elapsed time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.DecodeAttempts.WithLabelValues(format, outcome).Inc()
	m.DecodeDuration.WithLabelValues(format).Observe(elapsed.Seconds())
	m.PayloadBytes.WithLabelValues(format).Observe(float64(payloadLen))
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.DecodeAttempts,
		m.DecodeDuration,
		m.PayloadBytes,
		m.MessagesReceived,
		m.ConsumerConnected,
		m.ConsumerReconnects,
	}
}
