package schemacache

import (
	"github.com/Ender-Wang/Swifka-sub000/avro"
	"github.com/Ender-Wang/Swifka-sub000/protobuf"
)

// ProtoCache caches parsed .proto schemas.
type ProtoCache = Cache[*protobuf.Schema]

// AvroCache caches parsed Avro schemas.
type AvroCache = Cache[*avro.Schema]

// GetProto returns the cached schema for key, parsing and storing text
// on a miss. The proto parser never fails, so neither does this path;
// Set errors only occur on an empty key.
func GetProto(c *ProtoCache, key, text string) (*protobuf.Schema, error) {
	if schema, ok := c.Get(key); ok {
		return schema, nil
	}
	schema := protobuf.ParseSchema(text)
	if _, err := c.Set(key, schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// GetAvro returns the cached schema for key, parsing text on a miss. A
// parse failure is returned without caching: storing a nil schema would
// turn every later lookup into a silent not-configured state.
func GetAvro(c *AvroCache, key, text string) (*avro.Schema, error) {
	if schema, ok := c.Get(key); ok {
		return schema, nil
	}
	schema, err := avro.ParseSchema(text)
	if err != nil {
		return nil, err
	}
	if _, err := c.Set(key, schema); err != nil {
		return nil, err
	}
	return schema, nil
}
