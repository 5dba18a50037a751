// Package config loads and validates the application configuration.
//
// Configuration is YAML on disk, overlaid on compiled-in defaults so a
// partial file only needs the keys it changes. Validation runs in two
// layers: a JSON schema for per-field structure (types, ranges, enums)
// and plain Go for the cross-field rules a schema cannot express, such
// as the avro format requiring a schema file.
//
// All validation failures classify as invalid: a bad config never
// retries, it gets fixed.
package config
