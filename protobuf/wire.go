package protobuf

import (
	stderrors "errors"
	"fmt"

	"github.com/Ender-Wang/Swifka-sub000/errors"
)

// WireType is the 3-bit tag in protobuf's binary format indicating how to
// parse the bytes that follow.
type WireType int

const (
	// WireVarint is wire type 0: a LEB128 varint.
	WireVarint WireType = 0
	// WireFixed64 is wire type 1: 8 little-endian bytes.
	WireFixed64 WireType = 1
	// WireLengthDelimited is wire type 2: a varint length then raw bytes.
	WireLengthDelimited WireType = 2
	// WireFixed32 is wire type 5: 4 little-endian bytes.
	WireFixed32 WireType = 5
)

// String returns the conventional name of the wire type.
func (w WireType) String() string {
	switch w {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireLengthDelimited:
		return "length-delimited"
	case WireFixed32:
		return "fixed32"
	default:
		return fmt.Sprintf("unknown(%d)", int(w))
	}
}

// ValueKind discriminates the payload shapes a decoded wire value can take.
type ValueKind int

const (
	// KindVarint holds a raw unsigned varint in Num.
	KindVarint ValueKind = iota
	// KindFixed64 holds 8 little-endian bytes reinterpreted as uint64 in Num.
	KindFixed64
	// KindLengthDelimited holds the raw delimited bytes in Bytes.
	KindLengthDelimited
	// KindFixed32 holds 4 little-endian bytes reinterpreted as uint32 in Num.
	KindFixed32
	// KindNested holds a recursively decoded message in Fields. The wire
	// decoder never produces this kind itself; the schema-aware formatter
	// promotes KindLengthDelimited values to it when the schema declares a
	// message type.
	KindNested
)

// Value is a tagged union over the five payload shapes of the wire format.
// Exactly one of Num, Bytes, or Fields is meaningful, selected by Kind.
type Value struct {
	Kind   ValueKind
	Num    uint64
	Bytes  []byte
	Fields []Field
}

// Field pairs a positive field number with one decoded wire value.
// Multiple fields may share a number (repeated fields); first-seen order
// is preserved by the decoder.
type Field struct {
	Number int
	Value  Value
}

// DecodeFields decodes an arbitrary byte slice into a flat list of fields
// with no schema input. Length-delimited payloads are kept as raw bytes;
// nested-message detection is deferred to the schema-aware pass.
//
// Zero-length input returns an empty field list. A truncated buffer fails
// with errors.ErrUnexpectedEnd, an unknown wire type with
// errors.ErrUnknownWireType, and a zero tag with errors.ErrInvalidTag.
func DecodeFields(buf []byte) ([]Field, error) {
	fields := []Field{}
	pos := 0

	for pos < len(buf) {
		tag, n, err := ReadUvarint(buf, pos)
		if err != nil {
			return nil, fmt.Errorf("reading tag: %w", tagReadErr(err))
		}
		pos += n

		if tag == 0 {
			// A zero tag would be field 0, which the wire format forbids.
			return nil, fmt.Errorf("%w: zero tag at offset %d", errors.ErrInvalidTag, pos-n)
		}

		fieldNumber := int(tag >> 3)
		wireType := WireType(tag & 0x7)

		var value Value
		switch wireType {
		case WireVarint:
			v, n, err := ReadUvarint(buf, pos)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", fieldNumber, tagReadErr(err))
			}
			pos += n
			value = Value{Kind: KindVarint, Num: v}

		case WireFixed64:
			v, err := ReadFixed64(buf, pos)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", fieldNumber, err)
			}
			pos += 8
			value = Value{Kind: KindFixed64, Num: v}

		case WireLengthDelimited:
			length, n, err := ReadUvarint(buf, pos)
			if err != nil {
				return nil, fmt.Errorf("field %d length: %w", fieldNumber, tagReadErr(err))
			}
			pos += n
			if length > uint64(len(buf)-pos) {
				return nil, fmt.Errorf("%w: field %d claims %d bytes, %d remain",
					errors.ErrUnexpectedEnd, fieldNumber, length, len(buf)-pos)
			}
			// Copy so the decoded tree owns its bytes independent of buf.
			data := make([]byte, length)
			copy(data, buf[pos:pos+int(length)])
			pos += int(length)
			value = Value{Kind: KindLengthDelimited, Bytes: data}

		case WireFixed32:
			v, err := ReadFixed32(buf, pos)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", fieldNumber, err)
			}
			pos += 4
			value = Value{Kind: KindFixed32, Num: uint64(v)}

		default:
			return nil, fmt.Errorf("%w %d for field %d at offset %d",
				errors.ErrUnknownWireType, int(wireType), fieldNumber, pos-n)
		}

		fields = append(fields, Field{Number: fieldNumber, Value: value})
	}

	return fields, nil
}

// tagReadErr maps primitive-codec truncation onto the wire decoder's
// error vocabulary while keeping overflow distinct.
func tagReadErr(err error) error {
	if stderrors.Is(err, errors.ErrTruncated) {
		return fmt.Errorf("%w (%v)", errors.ErrUnexpectedEnd, err)
	}
	return err
}
