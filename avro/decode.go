package avro

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/Ender-Wang/Swifka-sub000/errors"
)

// invalidUTF8Marker replaces string payloads that are not valid UTF-8.
// Rendering a placeholder beats failing the whole decode for a display
// tool.
const invalidUTF8Marker = "<invalid utf8>"

// maxDecodeDepth caps recursion through nested records, arrays, and
// unions to guard against adversarial schema/payload combinations.
const maxDecodeDepth = 64

// Decode sequentially consumes data according to schema. Avro's wire
// format carries no field tags: the schema alone determines how many
// bytes to read and how to interpret them, in schema-declared order.
//
// The decode is a single forward-only cursor walk with no backtracking.
// Any read past the end of the buffer fails with errors.ErrUnexpectedEnd
// naming the type being read; structurally impossible values (negative
// lengths, out-of-range union indexes, varint overflow) fail with
// errors.ErrInvalidData. A failed decode leaves no partial result: one
// misread desynchronizes every subsequent field, so the caller must treat
// failure as "cannot display this payload".
func Decode(data []byte, schema *Schema) (Value, error) {
	if schema == nil {
		return Value{}, fmt.Errorf("%w: nil schema", errors.ErrInvalidSchema)
	}
	d := &decoder{buf: data}
	value, err := d.read(schema, 0)
	if err != nil {
		return Value{}, err
	}
	return value, nil
}

// decoder owns the cursor for one decode call. Concurrent decodes against
// the same immutable schema are safe because each call allocates its own
// decoder.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) read(schema *Schema, depth int) (Value, error) {
	if depth > maxDecodeDepth {
		return Value{}, fmt.Errorf("%w: nesting deeper than %d levels", errors.ErrInvalidData, maxDecodeDepth)
	}

	switch schema.Kind {
	case KindNull:
		// Null consumes zero bytes.
		return Null(), nil

	case KindBoolean:
		if d.pos >= len(d.buf) {
			return Value{}, d.unexpectedEnd("boolean")
		}
		b := d.buf[d.pos]
		d.pos++
		return Value{Kind: ValueBool, Bool: b != 0}, nil

	case KindInt:
		n, err := d.readZigzag("int")
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueInt, Int: int64(int32(n))}, nil

	case KindLong:
		n, err := d.readZigzag("long")
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueLong, Int: n}, nil

	case KindFloat:
		if d.pos+4 > len(d.buf) {
			return Value{}, d.unexpectedEnd("float")
		}
		bits := binary.LittleEndian.Uint32(d.buf[d.pos:])
		d.pos += 4
		return Value{Kind: ValueFloat, Float: float64(math.Float32frombits(bits))}, nil

	case KindDouble:
		if d.pos+8 > len(d.buf) {
			return Value{}, d.unexpectedEnd("double")
		}
		bits := binary.LittleEndian.Uint64(d.buf[d.pos:])
		d.pos += 8
		return Value{Kind: ValueDouble, Float: math.Float64frombits(bits)}, nil

	case KindString:
		raw, err := d.readLengthPrefixed("string")
		if err != nil {
			return Value{}, err
		}
		if !utf8.Valid(raw) {
			return Value{Kind: ValueString, Str: invalidUTF8Marker}, nil
		}
		return Value{Kind: ValueString, Str: string(raw)}, nil

	case KindBytes:
		raw, err := d.readLengthPrefixed("bytes")
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueBytes, Bytes: raw}, nil

	case KindRecord:
		pairs := make([]Pair, 0, len(schema.Fields))
		for _, field := range schema.Fields {
			fieldValue, err := d.read(field.Type, depth+1)
			if err != nil {
				return Value{}, fmt.Errorf("record %q field %q: %w", schema.Name, field.Name, err)
			}
			pairs = append(pairs, Pair{Name: field.Name, Value: fieldValue})
		}
		return Value{Kind: ValueRecord, Pairs: pairs}, nil

	case KindArray:
		items := []Value{}
		err := d.readBlocks("array", func() error {
			item, err := d.read(schema.Items, depth+1)
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueArray, Items: items}, nil

	case KindMap:
		pairs := []Pair{}
		err := d.readBlocks("map", func() error {
			key, err := d.readLengthPrefixed("map key")
			if err != nil {
				return err
			}
			keyStr := string(key)
			if !utf8.Valid(key) {
				keyStr = invalidUTF8Marker
			}
			value, err := d.read(schema.Values, depth+1)
			if err != nil {
				return err
			}
			pairs = append(pairs, Pair{Name: keyStr, Value: value})
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueRecord, Pairs: pairs}, nil

	case KindEnum:
		index, err := d.readZigzag("enum index")
		if err != nil {
			return Value{}, err
		}
		if index < 0 || index >= int64(len(schema.Symbols)) {
			// An unknown symbol index renders rather than failing: the
			// writer may simply be newer than the supplied schema.
			return Value{Kind: ValueString, Str: fmt.Sprintf("UNKNOWN_%d", index)}, nil
		}
		return Value{Kind: ValueString, Str: schema.Symbols[index]}, nil

	case KindUnion:
		index, err := d.readZigzag("union index")
		if err != nil {
			return Value{}, err
		}
		if index < 0 || index >= int64(len(schema.Branches)) {
			return Value{}, fmt.Errorf("%w: union index %d out of range (%d branches)",
				errors.ErrInvalidData, index, len(schema.Branches))
		}
		branch := schema.Branches[index]
		if branch.Kind == KindNull {
			return Null(), nil
		}
		return d.read(branch, depth+1)

	case KindFixed:
		if d.pos+schema.Size > len(d.buf) {
			return Value{}, d.unexpectedEnd("fixed " + schema.Name)
		}
		raw := make([]byte, schema.Size)
		copy(raw, d.buf[d.pos:])
		d.pos += schema.Size
		return Value{Kind: ValueBytes, Bytes: raw}, nil

	default:
		return Value{}, fmt.Errorf("%w: unsupported schema kind %v", errors.ErrInvalidSchema, schema.Kind)
	}
}

// readBlocks drives Avro's block encoding for arrays and maps: a zigzag
// block count per block, zero terminating the collection. A negative
// count means the block byte size follows (read and discarded; it exists
// so consumers can skip blocks without decoding, which this decoder does
// not use) and the item count is the negated value.
func (d *decoder) readBlocks(context string, readItem func() error) error {
	for {
		count, err := d.readZigzag(context + " block count")
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		if count < 0 {
			count = -count
			if _, err := d.readZigzag(context + " block size"); err != nil {
				return err
			}
		}
		// Every encoded item occupies at least one byte except null, and
		// a null collection larger than its own payload has no legitimate
		// encoding either. A count beyond the remaining bytes is a
		// malformed (or hostile) block header, not a short read, so it
		// must fail before the item loop allocates anything.
		if count > int64(len(d.buf)-d.pos) {
			return fmt.Errorf("%w: %s block count %d exceeds %d remaining bytes",
				errors.ErrInvalidData, context, count, len(d.buf)-d.pos)
		}
		for i := int64(0); i < count; i++ {
			if err := readItem(); err != nil {
				return err
			}
		}
	}
}

// readLengthPrefixed reads a zigzag long byte length then that many bytes.
func (d *decoder) readLengthPrefixed(context string) ([]byte, error) {
	length, err := d.readZigzag(context + " length")
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative %s length %d", errors.ErrInvalidData, context, length)
	}
	if length > int64(len(d.buf)-d.pos) {
		return nil, d.unexpectedEnd(context)
	}
	raw := make([]byte, length)
	copy(raw, d.buf[d.pos:])
	d.pos += int(length)
	return raw, nil
}

// readZigzag reads a raw unsigned varint and zigzag-decodes it.
func (d *decoder) readZigzag(context string) (int64, error) {
	var value uint64
	var shift uint

	for i := 0; ; i++ {
		if d.pos >= len(d.buf) {
			return 0, d.unexpectedEnd(context)
		}
		if shift >= 64 {
			return 0, fmt.Errorf("%w: varint overflow reading %s", errors.ErrInvalidData, context)
		}

		b := d.buf[d.pos]
		d.pos++
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}

	return int64(value>>1) ^ -int64(value&1), nil
}

func (d *decoder) unexpectedEnd(context string) error {
	return fmt.Errorf("%w reading %s at offset %d", errors.ErrUnexpectedEnd, context, d.pos)
}
