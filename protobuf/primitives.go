package protobuf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Ender-Wang/Swifka-sub000/errors"
)

// maxVarintBytes is the longest encoding of a 64-bit varint: ten 7-bit groups.
const maxVarintBytes = 10

// ReadUvarint reads an unsigned LEB128 varint from buf starting at pos.
// It returns the decoded value and the number of bytes consumed. The read
// is a pure function of (buf, pos); it never mutates shared state.
//
// Fails with errors.ErrTruncated when the buffer ends mid-sequence and
// errors.ErrOverflow when the encoding exceeds ten bytes (more than 64
// bits of payload).
func ReadUvarint(buf []byte, pos int) (uint64, int, error) {
	var value uint64
	var shift uint

	for i := 0; ; i++ {
		if pos+i >= len(buf) {
			return 0, 0, fmt.Errorf("%w at offset %d", errors.ErrTruncated, pos+i)
		}
		if i >= maxVarintBytes {
			return 0, 0, fmt.Errorf("%w at offset %d", errors.ErrOverflow, pos)
		}

		b := buf[pos+i]
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
		shift += 7
	}
}

// ZigzagEncode maps a signed integer onto an unsigned one so that values
// of small magnitude (positive or negative) encode to small varints.
func ZigzagEncode(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// ZigzagDecode reverses ZigzagEncode: (raw >> 1) ^ -(raw & 1).
func ZigzagDecode(raw uint64) int64 {
	return int64(raw>>1) ^ -int64(raw&1)
}

// ReadFixed32 reads 4 little-endian bytes at pos as an unsigned integer.
func ReadFixed32(buf []byte, pos int) (uint32, error) {
	if pos+4 > len(buf) {
		return 0, fmt.Errorf("%w: need 4 bytes at offset %d, have %d", errors.ErrUnexpectedEnd, pos, len(buf)-pos)
	}
	return binary.LittleEndian.Uint32(buf[pos:]), nil
}

// ReadFixed64 reads 8 little-endian bytes at pos as an unsigned integer.
func ReadFixed64(buf []byte, pos int) (uint64, error) {
	if pos+8 > len(buf) {
		return 0, fmt.Errorf("%w: need 8 bytes at offset %d, have %d", errors.ErrUnexpectedEnd, pos, len(buf)-pos)
	}
	return binary.LittleEndian.Uint64(buf[pos:]), nil
}

// Float32FromBits reinterprets a fixed32 payload as an IEEE-754 float.
func Float32FromBits(bits uint32) float32 {
	return math.Float32frombits(bits)
}

// Float64FromBits reinterprets a fixed64 payload as an IEEE-754 double.
func Float64FromBits(bits uint64) float64 {
	return math.Float64frombits(bits)
}
