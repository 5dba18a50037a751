// Package avro implements schema-driven decoding of Avro binary data for
// payload inspection.
//
// Unlike the protobuf wire format, Avro's binary encoding carries no field
// identifiers at all: the writer's schema alone determines how many bytes
// each field occupies and in what order fields appear. A schema is
// therefore required for every decode, and a failed decode must be treated
// as "cannot display this payload" because one misread desynchronizes
// every subsequent field.
//
// The public API is a two-step pipeline:
//
//	schema, err := avro.ParseSchema(schemaJSON)
//	value, err := avro.Decode(payload, schema)
//	text := avro.FormatPretty(value)
//
// ParseSchema is strict where the proto parser is tolerant: a malformed
// schema fails outright with errors.ErrInvalidSchema, since decoding
// against a partial Avro schema is never safe.
//
// Decoded records preserve schema field order through an ordered pair
// list; maps preserve insertion order the same way. Schema trees and
// decoded values are immutable; concurrent decodes against a shared
// schema are safe because each call owns its own cursor.
package avro
