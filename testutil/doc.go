// Package testutil provides wire-format byte builders used by tests
// throughout the module.
//
// WireBuilder produces textbook protobuf wire-format payloads and
// AvroBuilder produces Avro binary payloads, so tests construct inputs
// from semantic values instead of hand-maintained hex literals. Both
// builders are encode-only and intentionally independent of the decoding
// packages: round-trip tests would prove nothing if encoder and decoder
// shared code.
package testutil
