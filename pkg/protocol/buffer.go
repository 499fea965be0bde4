package protocol

import (
	"errors"
	"fmt"
	"math"
)

// DefaultBufferSize is the capacity of a freshly allocated ByteBuffer.
const DefaultBufferSize = 64

// Common decoding errors.
var (
	ErrReadPastLimit  = errors.New("protocol: read past limit")
	ErrSkipPastLimit  = errors.New("protocol: skip past limit")
	ErrVarintOverflow = errors.New("protocol: varint overflow")
	ErrNilElement     = errors.New("protocol: nil element in repeated field")
	ErrInvalidLimit   = errors.New("protocol: limit outside buffer")
)

// UnimplementedWireTypeError is returned when an unknown field carries a wire
// type the codec cannot skip.
type UnimplementedWireTypeError struct {
	WireType WireType
}

func (e *UnimplementedWireTypeError) Error() string {
	return fmt.Sprintf("protocol: unimplemented wire type %d", uint8(e.WireType))
}

// ByteBuffer is a growable byte array with a shared read/write cursor.
//
// offset is the next position to read or write and limit marks the end of
// valid data, or the end of the nested scope currently being decoded.
// 0 <= offset <= limit <= len(bytes) holds between calls.
type ByteBuffer struct {
	bytes  []byte
	offset int
	limit  int
}

// NewByteBuffer allocates an empty buffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &ByteBuffer{bytes: make([]byte, capacity)}
}

// WrapByteBuffer wraps data for decoding. The buffer reads data in place;
// slices returned by ReadBytes alias it.
func WrapByteBuffer(data []byte) *ByteBuffer {
	return &ByteBuffer{bytes: data, limit: len(data)}
}

// Reset empties the buffer, keeping the underlying array.
func (bb *ByteBuffer) Reset() {
	bb.offset = 0
	bb.limit = 0
}

// Offset returns the cursor position.
func (bb *ByteBuffer) Offset() int {
	return bb.offset
}

// Limit returns the end of the readable region.
func (bb *ByteBuffer) Limit() int {
	return bb.limit
}

// SetLimit moves the end of the readable region. It is used to restore the
// outer limit returned by PushTemporaryLength.
func (bb *ByteBuffer) SetLimit(limit int) error {
	if limit < bb.offset || limit > len(bb.bytes) {
		return ErrInvalidLimit
	}
	bb.limit = limit
	return nil
}

// IsAtEnd reports whether the cursor reached the limit.
func (bb *ByteBuffer) IsAtEnd() bool {
	return bb.offset >= bb.limit
}

// Len returns the number of valid bytes (the limit).
func (bb *ByteBuffer) Len() int {
	return bb.limit
}

// Bytes returns the valid region of the buffer. The slice aliases the
// buffer's array and is invalidated by further writes.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.bytes[:bb.limit]
}

// grow reserves count bytes at the cursor and returns their start offset.
// The array doubles past the required size when it is too small.
func (bb *ByteBuffer) grow(count int) int {
	offset := bb.offset
	final := offset + count
	if final > len(bb.bytes) {
		next := make([]byte, final*2)
		copy(next, bb.bytes)
		bb.bytes = next
	}
	bb.offset = final
	if final > bb.limit {
		bb.limit = final
	}
	return offset
}

// advance consumes count bytes and returns their start offset.
func (bb *ByteBuffer) advance(count int) (int, error) {
	offset := bb.offset
	if count < 0 || offset+count > bb.limit {
		return 0, ErrReadPastLimit
	}
	bb.offset += count
	return offset, nil
}

// Skip advances the cursor by count bytes without reading them.
func (bb *ByteBuffer) Skip(count int) error {
	if count < 0 || bb.offset+count > bb.limit {
		return ErrSkipPastLimit
	}
	bb.offset += count
	return nil
}

// ReadByte reads a single byte.
func (bb *ByteBuffer) ReadByte() (byte, error) {
	offset, err := bb.advance(1)
	if err != nil {
		return 0, err
	}
	return bb.bytes[offset], nil
}

// WriteByte appends a single byte. It always succeeds; the error exists to
// satisfy io.ByteWriter.
func (bb *ByteBuffer) WriteByte(b byte) error {
	offset := bb.grow(1)
	bb.bytes[offset] = b
	return nil
}

// ReadBytes reads exactly count bytes.
// The returned slice references the buffer's array; do not modify.
func (bb *ByteBuffer) ReadBytes(count int) ([]byte, error) {
	offset, err := bb.advance(count)
	if err != nil {
		return nil, err
	}
	return bb.bytes[offset : offset+count : offset+count], nil
}

// WriteBytes appends raw bytes.
func (bb *ByteBuffer) WriteBytes(b []byte) {
	offset := bb.grow(len(b))
	copy(bb.bytes[offset:], b)
}

// WriteByteBuffer appends the valid region of other.
func (bb *ByteBuffer) WriteByteBuffer(other *ByteBuffer) {
	offset := bb.grow(other.limit)
	copy(bb.bytes[offset:], other.bytes[:other.limit])
}

// ReadInt32 reads a little-endian fixed 32-bit word.
func (bb *ByteBuffer) ReadInt32() (int32, error) {
	offset, err := bb.advance(4)
	if err != nil {
		return 0, err
	}
	b := bb.bytes[offset : offset+4]
	return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24), nil
}

// WriteInt32 appends a little-endian fixed 32-bit word.
func (bb *ByteBuffer) WriteInt32(v int32) {
	offset := bb.grow(4)
	u := uint32(v)
	bb.bytes[offset] = byte(u)
	bb.bytes[offset+1] = byte(u >> 8)
	bb.bytes[offset+2] = byte(u >> 16)
	bb.bytes[offset+3] = byte(u >> 24)
}

// ReadInt64 reads a little-endian fixed 64-bit word as two halves.
func (bb *ByteBuffer) ReadInt64() (Long, error) {
	low, err := bb.ReadInt32()
	if err != nil {
		return Long{}, err
	}
	high, err := bb.ReadInt32()
	if err != nil {
		return Long{}, err
	}
	return Long{Low: uint32(low), High: uint32(high)}, nil
}

// WriteInt64 appends a little-endian fixed 64-bit word.
func (bb *ByteBuffer) WriteInt64(v Long) {
	bb.WriteInt32(int32(v.Low))
	bb.WriteInt32(int32(v.High))
}

// ReadFloat32 reads a little-endian IEEE 754 single.
func (bb *ByteBuffer) ReadFloat32() (float32, error) {
	v, err := bb.ReadInt32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// WriteFloat32 appends a little-endian IEEE 754 single.
func (bb *ByteBuffer) WriteFloat32(v float32) {
	bb.WriteInt32(int32(math.Float32bits(v)))
}

// ReadFloat64 reads a little-endian IEEE 754 double.
func (bb *ByteBuffer) ReadFloat64() (float64, error) {
	v, err := bb.ReadInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v.Uint64()), nil
}

// WriteFloat64 appends a little-endian IEEE 754 double.
func (bb *ByteBuffer) WriteFloat64(v float64) {
	bb.WriteInt64(LongFromUint64(math.Float64bits(v)))
}

// PushTemporaryLength reads a varint length and narrows the limit to the
// region it describes, so a nested decode stops at the right boundary.
// It returns the outer limit; restore it with SetLimit once the nested
// region is consumed.
func (bb *ByteBuffer) PushTemporaryLength() (int, error) {
	length, err := bb.ReadVarint32()
	if err != nil {
		return 0, err
	}
	outer := bb.limit
	if uint64(length) > uint64(outer-bb.offset) {
		return 0, ErrReadPastLimit
	}
	bb.limit = bb.offset + int(length)
	return outer, nil
}

// SkipUnknownField skips the value of a field whose number is not known,
// using its wire type to find the value's extent.
func (bb *ByteBuffer) SkipUnknownField(wt WireType) error {
	switch wt {
	case WireVarint:
		for {
			b, err := bb.ReadByte()
			if err != nil {
				return err
			}
			if b&0x80 == 0 {
				return nil
			}
		}
	case WireBytes:
		n, err := bb.ReadVarint32()
		if err != nil {
			return err
		}
		if uint64(n) > uint64(bb.limit-bb.offset) {
			return ErrSkipPastLimit
		}
		return bb.Skip(int(n))
	case WireFixed32:
		return bb.Skip(4)
	case WireFixed64:
		return bb.Skip(8)
	default:
		return &UnimplementedWireTypeError{WireType: wt}
	}
}
