// Package stream feeds the decode engine from NATS JetStream.
//
// A Consumer pulls raw payloads from a configured stream/subject, runs
// each through a display.Pipeline, records metrics, and keeps a bounded
// drop-oldest history of rendered messages for inspection. Decode
// failures never stop the consumer: they are counted, rate-limit
// logged, and stored in history with their placeholder rendering.
//
// BuildPipeline turns decoder configuration into a pipeline, loading
// schema files through caller-owned schema caches keyed by file path.
//
// Connection establishment retries with exponential backoff; once up,
// the underlying NATS client reconnects on its own and the consumer's
// durable cursor survives the gap.
package stream
