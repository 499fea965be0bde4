package protocol

import "unicode/utf16"

// replacementChar is substituted for every malformed input sequence.
const replacementChar = 0xFFFD

// WriteString appends a length-prefixed UTF-8 string.
// Format: varint byte length + UTF-8 bytes
func (bb *ByteBuffer) WriteString(s string) {
	bb.WriteUTF16(utf16.Encode([]rune(s)))
}

// ReadString reads count bytes of UTF-8 text. Malformed sequences decode to
// U+FFFD instead of failing.
func (bb *ByteBuffer) ReadString(count int) (string, error) {
	units, err := bb.ReadUTF16(count)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

// codePointAt returns the code point starting at units[i] and the number of
// units it spans. A high surrogate followed by any unit is combined with it.
func codePointAt(units []uint16, i int) (rune, int) {
	c := rune(units[i])
	if c >= 0xD800 && c <= 0xDBFF && i+1 < len(units) {
		return (c-0xD800)<<10 + rune(units[i+1]) - 0xDC00 + 0x10000, 2
	}
	return c, 1
}

// WriteUTF16 encodes UTF-16 code units as UTF-8, prefixed with the encoded
// byte length. Surrogate pairs become one 4-byte sequence.
func (bb *ByteBuffer) WriteUTF16(units []uint16) {
	byteCount := 0
	for i := 0; i < len(units); {
		c, n := codePointAt(units, i)
		i += n
		switch {
		case c < 0x80:
			byteCount++
		case c < 0x800:
			byteCount += 2
		case c < 0x10000:
			byteCount += 3
		default:
			byteCount += 4
		}
	}
	bb.WriteVarint32(uint32(byteCount))

	offset := bb.grow(byteCount)
	out := bb.bytes[offset : offset+byteCount]
	j := 0
	for i := 0; i < len(units); {
		c, n := codePointAt(units, i)
		i += n
		switch {
		case c < 0x80:
			out[j] = byte(c)
			j++
		case c < 0x800:
			out[j] = byte(c>>6&0x1F) | 0xC0
			out[j+1] = byte(c&0x3F) | 0x80
			j += 2
		case c < 0x10000:
			out[j] = byte(c>>12&0x0F) | 0xE0
			out[j+1] = byte(c>>6&0x3F) | 0x80
			out[j+2] = byte(c&0x3F) | 0x80
			j += 3
		default:
			out[j] = byte(c>>18&0x07) | 0xF0
			out[j+1] = byte(c>>12&0x3F) | 0x80
			out[j+2] = byte(c>>6&0x3F) | 0x80
			out[j+3] = byte(c&0x3F) | 0x80
			j += 4
		}
	}
}

// ReadUTF16 decodes count bytes of UTF-8 into UTF-16 code units.
//
// A lead byte whose sequence is truncated, has a bad continuation byte,
// is overlong, encodes a surrogate or lies past U+10FFFF yields one
// U+FFFD and decoding resumes at the next byte.
func (bb *ByteBuffer) ReadUTF16(count int) ([]uint16, error) {
	offset, err := bb.advance(count)
	if err != nil {
		return nil, err
	}
	in := bb.bytes[offset : offset+count]
	units := make([]uint16, 0, count)

	for i := 0; i < count; i++ {
		c1 := rune(in[i])
		switch {
		case c1&0x80 == 0:
			units = append(units, uint16(c1))

		case c1&0xE0 == 0xC0:
			if i+1 >= count {
				units = append(units, replacementChar)
				continue
			}
			c2 := rune(in[i+1])
			if c2&0xC0 != 0x80 {
				units = append(units, replacementChar)
				continue
			}
			c := (c1&0x1F)<<6 | c2&0x3F
			if c < 0x80 {
				units = append(units, replacementChar)
				continue
			}
			units = append(units, uint16(c))
			i++

		case c1&0xF0 == 0xE0:
			if i+2 >= count {
				units = append(units, replacementChar)
				continue
			}
			c2, c3 := rune(in[i+1]), rune(in[i+2])
			if c2&0xC0 != 0x80 || c3&0xC0 != 0x80 {
				units = append(units, replacementChar)
				continue
			}
			c := (c1&0x0F)<<12 | (c2&0x3F)<<6 | c3&0x3F
			if c < 0x0800 || (c >= 0xD800 && c <= 0xDFFF) {
				units = append(units, replacementChar)
				continue
			}
			units = append(units, uint16(c))
			i += 2

		case c1&0xF8 == 0xF0:
			if i+3 >= count {
				units = append(units, replacementChar)
				continue
			}
			c2, c3, c4 := rune(in[i+1]), rune(in[i+2]), rune(in[i+3])
			if c2&0xC0 != 0x80 || c3&0xC0 != 0x80 || c4&0xC0 != 0x80 {
				units = append(units, replacementChar)
				continue
			}
			c := (c1&0x07)<<18 | (c2&0x3F)<<12 | (c3&0x3F)<<6 | c4&0x3F
			if c < 0x10000 || c > 0x10FFFF {
				units = append(units, replacementChar)
				continue
			}
			c -= 0x10000
			units = append(units, uint16(c>>10+0xD800), uint16(c&0x3FF+0xDC00))
			i += 3

		default:
			units = append(units, replacementChar)
		}
	}
	return units, nil
}
