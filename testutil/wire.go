package testutil

import (
	"encoding/binary"
	"math"
)

// WireBuilder accumulates textbook protobuf wire-format bytes for tests.
// Methods return the builder for chaining:
//
//	data := testutil.NewWireBuilder().
//	    Varint(1, 150).
//	    String(2, "hello").
//	    Bytes()
type WireBuilder struct {
	buf []byte
}

// NewWireBuilder creates an empty builder.
func NewWireBuilder() *WireBuilder {
	return &WireBuilder{}
}

// Bytes returns the accumulated payload.
func (b *WireBuilder) Bytes() []byte {
	return b.buf
}

// Tag appends a field tag with the given wire type (0, 1, 2, or 5).
func (b *WireBuilder) Tag(fieldNumber, wireType int) *WireBuilder {
	b.buf = binary.AppendUvarint(b.buf, uint64(fieldNumber)<<3|uint64(wireType))
	return b
}

// Varint appends a wire-type-0 field with a raw varint value.
func (b *WireBuilder) Varint(fieldNumber int, value uint64) *WireBuilder {
	b.Tag(fieldNumber, 0)
	b.buf = binary.AppendUvarint(b.buf, value)
	return b
}

// Sint appends a wire-type-0 field carrying a zigzag-encoded signed value.
func (b *WireBuilder) Sint(fieldNumber int, value int64) *WireBuilder {
	return b.Varint(fieldNumber, uint64((value<<1)^(value>>63)))
}

// Fixed64 appends a wire-type-1 field.
func (b *WireBuilder) Fixed64(fieldNumber int, value uint64) *WireBuilder {
	b.Tag(fieldNumber, 1)
	b.buf = binary.LittleEndian.AppendUint64(b.buf, value)
	return b
}

// Double appends a wire-type-1 field carrying an IEEE-754 double.
func (b *WireBuilder) Double(fieldNumber int, value float64) *WireBuilder {
	return b.Fixed64(fieldNumber, math.Float64bits(value))
}

// Fixed32 appends a wire-type-5 field.
func (b *WireBuilder) Fixed32(fieldNumber int, value uint32) *WireBuilder {
	b.Tag(fieldNumber, 5)
	b.buf = binary.LittleEndian.AppendUint32(b.buf, value)
	return b
}

// Float appends a wire-type-5 field carrying an IEEE-754 float.
func (b *WireBuilder) Float(fieldNumber int, value float32) *WireBuilder {
	return b.Fixed32(fieldNumber, math.Float32bits(value))
}

// LengthDelimited appends a wire-type-2 field with raw bytes.
func (b *WireBuilder) LengthDelimited(fieldNumber int, data []byte) *WireBuilder {
	b.Tag(fieldNumber, 2)
	b.buf = binary.AppendUvarint(b.buf, uint64(len(data)))
	b.buf = append(b.buf, data...)
	return b
}

// String appends a wire-type-2 field with UTF-8 string bytes.
func (b *WireBuilder) String(fieldNumber int, s string) *WireBuilder {
	return b.LengthDelimited(fieldNumber, []byte(s))
}

// Message appends a wire-type-2 field whose payload is another builder's
// accumulated bytes, for constructing nested messages.
func (b *WireBuilder) Message(fieldNumber int, nested *WireBuilder) *WireBuilder {
	return b.LengthDelimited(fieldNumber, nested.Bytes())
}

// Raw appends arbitrary bytes without framing, for malformed-input tests.
func (b *WireBuilder) Raw(data ...byte) *WireBuilder {
	b.buf = append(b.buf, data...)
	return b
}
