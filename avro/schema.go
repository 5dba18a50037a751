package avro

import (
	"encoding/json"
	"fmt"

	"github.com/Ender-Wang/Swifka-sub000/errors"
)

// Kind discriminates the node types of a parsed Avro schema tree.
type Kind int

const (
	// KindNull is the Avro null primitive.
	KindNull Kind = iota
	// KindBoolean is the Avro boolean primitive.
	KindBoolean
	// KindInt is the 32-bit zigzag-varint integer primitive.
	KindInt
	// KindLong is the 64-bit zigzag-varint integer primitive.
	KindLong
	// KindFloat is the 4-byte little-endian IEEE-754 primitive.
	KindFloat
	// KindDouble is the 8-byte little-endian IEEE-754 primitive.
	KindDouble
	// KindString is a length-prefixed UTF-8 string.
	KindString
	// KindBytes is a length-prefixed raw byte sequence.
	KindBytes
	// KindRecord is a named sequence of fields decoded in declaration order.
	KindRecord
	// KindArray is a block-encoded homogeneous list.
	KindArray
	// KindMap is a block-encoded string-keyed collection.
	KindMap
	// KindEnum is a symbol table indexed by a zigzag int.
	KindEnum
	// KindUnion is an ordered branch list selected by positional index.
	KindUnion
	// KindFixed is a fixed-size byte blob with no length prefix.
	KindFixed
)

// String returns the Avro type name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindRecord:
		return "record"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindFixed:
		return "fixed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// SchemaField is one named field of a record schema.
type SchemaField struct {
	Name string
	Type *Schema
}

// Schema is a node in the recursive Avro type tree. Which auxiliary
// fields are populated depends on Kind. Schema trees are constructed once
// by ParseSchema and are read-only thereafter; branch order in Branches
// is significant because union selection during decode is by positional
// index, not by name.
type Schema struct {
	Kind Kind

	Name     string        // record, enum, fixed
	Fields   []SchemaField // record, in declaration order
	Items    *Schema       // array element type
	Values   *Schema       // map value type
	Symbols  []string      // enum, in declaration order
	Branches []*Schema     // union, in declaration order
	Size     int           // fixed byte count
}

var primitiveKinds = map[string]Kind{
	"null":    KindNull,
	"boolean": KindBoolean,
	"int":     KindInt,
	"long":    KindLong,
	"float":   KindFloat,
	"double":  KindDouble,
	"string":  KindString,
	"bytes":   KindBytes,
}

// ParseSchema parses an Avro schema from its JSON text into a type tree.
// Unlike the tolerant proto parser, any malformed schema aborts the whole
// parse with errors.ErrInvalidSchema: a partial Avro schema cannot be
// decoded against safely because the wire format carries no field tags.
func ParseSchema(text string) (*Schema, error) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", errors.ErrInvalidSchema, err)
	}
	return parseType(raw)
}

// parseType dispatches on the JSON shape of one schema node: a bare
// string is a primitive name, a list is a union, an object is a complex
// type selected by its "type" key.
func parseType(raw any) (*Schema, error) {
	switch v := raw.(type) {
	case string:
		return parsePrimitive(v)

	case []any:
		branches := make([]*Schema, 0, len(v))
		for i, branch := range v {
			parsed, err := parseType(branch)
			if err != nil {
				return nil, fmt.Errorf("union branch %d: %w", i, err)
			}
			branches = append(branches, parsed)
		}
		return &Schema{Kind: KindUnion, Branches: branches}, nil

	case map[string]any:
		return parseComplex(v)

	default:
		return nil, fmt.Errorf("%w: expected type name, union list, or object, found %T", errors.ErrInvalidSchema, raw)
	}
}

func parsePrimitive(name string) (*Schema, error) {
	kind, ok := primitiveKinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type name %q", errors.ErrInvalidSchema, name)
	}
	return &Schema{Kind: kind}, nil
}

func parseComplex(obj map[string]any) (*Schema, error) {
	typeValue, ok := obj["type"]
	if !ok {
		return nil, fmt.Errorf("%w: object schema missing \"type\" key", errors.ErrInvalidSchema)
	}
	typeName, ok := typeValue.(string)
	if !ok {
		// {"type": ["null","int"]} and similar: re-dispatch the whole
		// nested value.
		return parseType(typeValue)
	}

	switch typeName {
	case "record":
		return parseRecord(obj)
	case "array":
		items, ok := obj["items"]
		if !ok {
			return nil, fmt.Errorf("%w: array schema missing \"items\"", errors.ErrInvalidSchema)
		}
		itemType, err := parseType(items)
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		return &Schema{Kind: KindArray, Items: itemType}, nil
	case "map":
		values, ok := obj["values"]
		if !ok {
			return nil, fmt.Errorf("%w: map schema missing \"values\"", errors.ErrInvalidSchema)
		}
		valueType, err := parseType(values)
		if err != nil {
			return nil, fmt.Errorf("map values: %w", err)
		}
		return &Schema{Kind: KindMap, Values: valueType}, nil
	case "enum":
		return parseEnum(obj)
	case "fixed":
		return parseFixed(obj)
	default:
		// Object-wrapped primitive shorthand: {"type": "string"}.
		return parsePrimitive(typeName)
	}
}

func parseRecord(obj map[string]any) (*Schema, error) {
	name, ok := obj["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: record schema missing \"name\"", errors.ErrInvalidSchema)
	}
	rawFields, ok := obj["fields"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: record %q missing \"fields\" list", errors.ErrInvalidSchema, name)
	}

	fields := make([]SchemaField, 0, len(rawFields))
	for i, rawField := range rawFields {
		fieldObj, ok := rawField.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %q field %d is not an object", errors.ErrInvalidSchema, name, i)
		}
		fieldName, ok := fieldObj["name"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: record %q field %d missing \"name\"", errors.ErrInvalidSchema, name, i)
		}
		fieldType, ok := fieldObj["type"]
		if !ok {
			return nil, fmt.Errorf("%w: record %q field %q missing \"type\"", errors.ErrInvalidSchema, name, fieldName)
		}
		parsed, err := parseType(fieldType)
		if err != nil {
			return nil, fmt.Errorf("record %q field %q: %w", name, fieldName, err)
		}
		fields = append(fields, SchemaField{Name: fieldName, Type: parsed})
	}

	return &Schema{Kind: KindRecord, Name: name, Fields: fields}, nil
}

func parseEnum(obj map[string]any) (*Schema, error) {
	name, ok := obj["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: enum schema missing \"name\"", errors.ErrInvalidSchema)
	}
	rawSymbols, ok := obj["symbols"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: enum %q missing \"symbols\" list", errors.ErrInvalidSchema, name)
	}

	symbols := make([]string, 0, len(rawSymbols))
	for i, raw := range rawSymbols {
		symbol, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: enum %q symbol %d is not a string", errors.ErrInvalidSchema, name, i)
		}
		symbols = append(symbols, symbol)
	}

	return &Schema{Kind: KindEnum, Name: name, Symbols: symbols}, nil
}

func parseFixed(obj map[string]any) (*Schema, error) {
	name, ok := obj["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: fixed schema missing \"name\"", errors.ErrInvalidSchema)
	}
	size, ok := obj["size"].(float64)
	if !ok || size != float64(int(size)) || size < 0 {
		return nil, fmt.Errorf("%w: fixed %q requires an integer \"size\"", errors.ErrInvalidSchema, name)
	}
	return &Schema{Kind: KindFixed, Name: name, Size: int(size)}, nil
}
