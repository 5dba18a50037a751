// Package errors provides standardized error handling for WireLens packages.
//
// # Overview
//
// The package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable),
// and Fatal (unrecoverable, stop processing).
//
// For a decoding engine the important property is that payload and schema
// errors are Invalid, never Transient: re-decoding the same malformed bytes
// cannot succeed, so callers must not burn retries on them. Transient errors
// only arise at the transport boundary (the stream consumer), and Fatal is
// reserved for configuration problems that make the engine unusable.
//
// # Sentinel Errors
//
// Each codec surfaces its failure modes through package-level sentinels:
//
//   - Primitive codec: ErrTruncated, ErrOverflow
//   - Protobuf wire decoder: ErrUnexpectedEnd, ErrUnknownWireType
//   - Avro schema parser: ErrInvalidSchema
//   - Avro binary decoder: ErrInvalidData, ErrUnexpectedEnd
//
// Callers use errors.Is against these sentinels; the Wrap family adds
// "component.method: action failed: %w" context while preserving them
// through the chain.
//
// # Classification
//
// Check classification rather than matching strings:
//
//	if err := decoder.Decode(payload); err != nil {
//	    if errors.IsInvalid(err) {
//	        // render an inline error marker, do not retry
//	    }
//	}
//
// Classification-aware wrapping:
//
//	errors.WrapInvalid(err, "WireDecoder", "Decode", "read tag")
//	errors.WrapTransient(err, "Consumer", "Connect", "dial")
//	errors.WrapFatal(err, "Config", "Load", "parse yaml")
//
// All operations are thread-safe; sentinel variables are immutable and safe
// for concurrent use. RetryConfig integrates with the pkg/retry package for
// the transport-side transient cases.
package errors
