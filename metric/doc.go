// Package metric provides Prometheus instrumentation for the decode
// pipeline.
//
// A MetricsRegistry owns a private Prometheus registry carrying the core
// metrics every consumer shares (decode attempts, durations, payload
// sizes, stream connectivity) plus whatever component metrics are added
// through the MetricsRegistrar interface. Nothing registers against the
// global default registerer, so tests can create isolated registries
// freely.
//
// The codec packages themselves record nothing: instrumentation happens
// at the boundary (stream consumer, CLI), keeping decode functions pure.
package metric
