// Package wirelens is a schema-aware decoding engine for binary message
// payloads, built to answer one question quickly: "what is actually in
// these bytes?"
//
// # Layout
//
// The decode core is two pure-codec packages:
//
//   - protobuf: LEB128/zigzag primitives, a schema-less wire decoder
//     that recovers the field-number tree from any valid payload, a
//     tolerant .proto text parser, and a schema-aware formatter that
//     turns both into readable flat or indented text.
//   - avro: a strict Avro JSON schema parser and the schema-driven
//     sequential binary decoder, with matching text renderers.
//
// Around the core:
//
//   - display: the boundary that turns payloads plus optional schemas
//     into text, downgrading decode failures to inline placeholders and
//     distinguishing absent from empty payloads.
//   - schemacache: caller-owned caches of parsed schemas with
//     parse-through helpers.
//   - stream: a NATS JetStream pull consumer feeding payloads through a
//     display pipeline with metrics and bounded history.
//   - config, errors, metric: YAML+JSON-schema configuration, error
//     classification, and Prometheus instrumentation shared by the
//     boundary packages.
//
// The codec packages do no I/O, no logging, and hold no global state;
// everything operational lives at the boundary. cmd/wirelens wires it
// all into a CLI.
package wirelens
