// Package protobuf implements schema-optional decoding of protocol-buffer
// wire data for payload inspection.
//
// # Two-Pass Design
//
// Decoding is split into a schema-agnostic first pass and an optional
// schema-aware second pass:
//
//  1. DecodeFields turns raw bytes into a flat []Field of
//     (field number, wire value) pairs with no schema input. This always
//     works on any well-formed wire data because the wire format is
//     self-describing down to the wire-type level.
//  2. Formatter combines that field tree with a Schema parsed from .proto
//     text to resolve field names, enum symbols, signed/zigzag/float
//     reinterpretation, repeated-field grouping, and nested messages.
//
// The Avro format has no equivalent first pass; see the avro package for
// the schema-required path.
//
// # Schema Parsing
//
// ParseSchema understands the subset of the .proto language needed for
// display: message and enum blocks (arbitrarily nested), field
// declarations, and enum value tables. Options, imports, services, and
// RPCs are ignored. The parser is tolerant by design: a best-effort schema
// beats no schema for an inspection tool, so malformed blocks are skipped
// and recorded in Schema.Warnings instead of failing the parse.
//
// # Rendering
//
// Formatter.Format produces a single-line and an indented rendering from
// one walk. Rendering never fails; malformed nested payloads become inline
// error markers so one corrupt sub-field cannot hide its siblings.
//
// All functions in this package are pure over their inputs. A parsed
// Schema is immutable and safe to share across goroutines.
package protobuf
