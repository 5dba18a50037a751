package testutil

import (
	"encoding/binary"
	"math"
)

// AvroBuilder accumulates Avro binary-encoded bytes for tests. Avro's wire
// format carries no field identifiers, so callers must append values in
// the exact order the schema declares them.
type AvroBuilder struct {
	buf []byte
}

// NewAvroBuilder creates an empty builder.
func NewAvroBuilder() *AvroBuilder {
	return &AvroBuilder{}
}

// Bytes returns the accumulated payload.
func (b *AvroBuilder) Bytes() []byte {
	return b.buf
}

// Long appends a zigzag-varint-encoded signed integer (Avro int and long
// share this encoding).
func (b *AvroBuilder) Long(value int64) *AvroBuilder {
	b.buf = binary.AppendUvarint(b.buf, uint64((value<<1)^(value>>63)))
	return b
}

// Bool appends a single boolean byte.
func (b *AvroBuilder) Bool(value bool) *AvroBuilder {
	if value {
		b.buf = append(b.buf, 1)
	} else {
		b.buf = append(b.buf, 0)
	}
	return b
}

// Float appends 4 little-endian IEEE-754 bytes.
func (b *AvroBuilder) Float(value float32) *AvroBuilder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, math.Float32bits(value))
	return b
}

// Double appends 8 little-endian IEEE-754 bytes.
func (b *AvroBuilder) Double(value float64) *AvroBuilder {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, math.Float64bits(value))
	return b
}

// BytesValue appends a length-prefixed byte sequence (Avro bytes).
func (b *AvroBuilder) BytesValue(data []byte) *AvroBuilder {
	b.Long(int64(len(data)))
	b.buf = append(b.buf, data...)
	return b
}

// String appends a length-prefixed UTF-8 string.
func (b *AvroBuilder) String(s string) *AvroBuilder {
	return b.BytesValue([]byte(s))
}

// BlockCount appends an array/map block-count header.
func (b *AvroBuilder) BlockCount(count int64) *AvroBuilder {
	return b.Long(count)
}

// Fixed appends raw bytes with no length prefix (Avro fixed).
func (b *AvroBuilder) Fixed(data []byte) *AvroBuilder {
	b.buf = append(b.buf, data...)
	return b
}

// Raw appends arbitrary bytes without encoding, for malformed-input tests.
func (b *AvroBuilder) Raw(data ...byte) *AvroBuilder {
	b.buf = append(b.buf, data...)
	return b
}
