package protocol

// MaxVarintLen is the maximum number of bytes a varint can occupy.
// A 64-bit value requires at most 10 bytes in varint encoding.
const MaxVarintLen = 10

// WireType is the low 3 bits of a field tag.
type WireType uint8

const (
	WireVarint  WireType = 0 // int32, int64, uint32, bool, enum
	WireFixed64 WireType = 1 // fixed64, sfixed64, double
	WireBytes   WireType = 2 // string, bytes, nested messages, packed repeated
	WireFixed32 WireType = 5 // fixed32, sfixed32, float
)

// String returns the string representation of the wire type.
func (wt WireType) String() string {
	switch wt {
	case WireVarint:
		return "Varint"
	case WireFixed64:
		return "Fixed64"
	case WireBytes:
		return "Bytes"
	case WireFixed32:
		return "Fixed32"
	default:
		return "Unknown"
	}
}

// Tag builds the field key for a field number and wire type.
func Tag(field uint32, wt WireType) uint32 {
	return field<<3 | uint32(wt)
}

// SplitTag returns the field number and wire type of a field key.
func SplitTag(tag uint32) (uint32, WireType) {
	return tag >> 3, WireType(tag & 7)
}

// Long is a 64-bit value held as two 32-bit halves.
type Long struct {
	Low  uint32
	High uint32
}

// LongFromInt32 widens v by sign extension, matching the two's-complement
// form int32 fields take on the wire.
func LongFromInt32(v int32) Long {
	return Long{Low: uint32(v), High: uint32(v >> 31)}
}

// LongFromInt64 splits v into halves.
func LongFromInt64(v int64) Long {
	return LongFromUint64(uint64(v))
}

// LongFromUint64 splits v into halves.
func LongFromUint64(v uint64) Long {
	return Long{Low: uint32(v), High: uint32(v >> 32)}
}

// Uint64 joins the halves.
func (l Long) Uint64() uint64 {
	return uint64(l.High)<<32 | uint64(l.Low)
}

// Int64 joins the halves as a signed value.
func (l Long) Int64() int64 {
	return int64(l.Uint64())
}

// Int32 returns the low half as a signed value.
func (l Long) Int32() int32 {
	return int32(l.Low)
}

// WriteVarint32 appends v as a minimal unsigned varint.
// Uses protobuf-style encoding: 7 bits of data per byte, MSB indicates continuation.
func (bb *ByteBuffer) WriteVarint32(v uint32) {
	for v >= 0x80 {
		bb.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	bb.WriteByte(byte(v))
}

// ReadVarint32 reads a varint and keeps its low 32 bits. Values written by
// WriteVarint64 (such as sign-extended negative int32s) read back correctly.
func (bb *ByteBuffer) ReadVarint32() (uint32, error) {
	var v uint32
	for i := 0; i < MaxVarintLen; i++ {
		b, err := bb.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift := uint(i) * 7; shift < 32 {
			v |= uint32(b&0x7F) << shift
		}
		if b < 0x80 {
			return v, nil
		}
	}
	return 0, ErrVarintOverflow
}

// WriteVarint64 appends v as a minimal unsigned varint, 1 to 10 bytes.
// The value is processed as three parts of 28, 28 and 8 bits so only
// 32-bit arithmetic is needed on each half.
func (bb *ByteBuffer) WriteVarint64(v Long) {
	part0 := v.Low & 0x0FFFFFFF
	part1 := (v.Low>>28 | v.High<<4) & 0x0FFFFFFF
	part2 := v.High >> 24

	var size int
	switch {
	case part2 != 0:
		if part2 < 1<<7 {
			size = 9
		} else {
			size = 10
		}
	case part1 != 0:
		switch {
		case part1 < 1<<7:
			size = 5
		case part1 < 1<<14:
			size = 6
		case part1 < 1<<21:
			size = 7
		default:
			size = 8
		}
	default:
		switch {
		case part0 < 1<<7:
			size = 1
		case part0 < 1<<14:
			size = 2
		case part0 < 1<<21:
			size = 3
		default:
			size = 4
		}
	}

	offset := bb.grow(size)
	out := bb.bytes[offset : offset+size]
	for i := 0; i < size; i++ {
		var group uint32
		switch {
		case i < 4:
			group = part0 >> (7 * uint(i))
		case i < 8:
			group = part1 >> (7 * uint(i-4))
		default:
			group = part2 >> (7 * uint(i-8))
		}
		group &= 0x7F
		if i < size-1 {
			group |= 0x80
		}
		out[i] = byte(group)
	}
}

// ReadVarint64 reads a varint of up to 10 bytes.
func (bb *ByteBuffer) ReadVarint64() (Long, error) {
	var part0, part1, part2 uint32
	for i := 0; i < MaxVarintLen; i++ {
		b, err := bb.ReadByte()
		if err != nil {
			return Long{}, err
		}
		group := uint32(b & 0x7F)
		switch {
		case i < 4:
			part0 |= group << (7 * uint(i))
		case i < 8:
			part1 |= group << (7 * uint(i-4))
		default:
			part2 |= group << (7 * uint(i-8))
		}
		if b < 0x80 {
			return Long{
				Low:  part0 | part1<<28,
				High: part1>>4 | part2<<24,
			}, nil
		}
	}
	return Long{}, ErrVarintOverflow
}

// WriteVarint32ZigZag appends a signed value using ZigZag encoding.
// ZigZag maps signed integers to unsigned: 0->0, -1->1, 1->2, -2->3, 2->4, etc.
func (bb *ByteBuffer) WriteVarint32ZigZag(v int32) {
	bb.WriteVarint32(uint32(v<<1) ^ uint32(v>>31))
}

// ReadVarint32ZigZag reads a ZigZag-encoded signed value.
func (bb *ByteBuffer) ReadVarint32ZigZag() (int32, error) {
	uv, err := bb.ReadVarint32()
	if err != nil {
		return 0, err
	}
	return int32(uv>>1) ^ -int32(uv&1), nil
}

// WriteVarint64ZigZag appends a signed 64-bit value using ZigZag encoding.
func (bb *ByteBuffer) WriteVarint64ZigZag(v Long) {
	flip := uint32(int32(v.High) >> 31)
	bb.WriteVarint64(Long{
		Low:  (v.Low << 1) ^ flip,
		High: (v.High<<1 | v.Low>>31) ^ flip,
	})
}

// ReadVarint64ZigZag reads a ZigZag-encoded signed 64-bit value.
func (bb *ByteBuffer) ReadVarint64ZigZag() (Long, error) {
	v, err := bb.ReadVarint64()
	if err != nil {
		return Long{}, err
	}
	flip := -(v.Low & 1)
	return Long{
		Low:  (v.Low>>1 | v.High<<31) ^ flip,
		High: (v.High >> 1) ^ flip,
	}, nil
}

// Varint32Len returns the number of bytes WriteVarint32 emits for v.
func Varint32Len(v uint32) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}
