package protocol

// Message is implemented by every schema type in this package.
type Message interface {
	encodeTo(c *Codec, bb *ByteBuffer) error
	decodeFrom(bb *ByteBuffer) error
}

// Codec encodes and decodes messages. It owns the pool its encoders draw
// temporaries from. A Codec is safe for concurrent use.
type Codec struct {
	pool *BufferPool
}

// NewCodec creates a codec with its own buffer pool.
func NewCodec() *Codec {
	return &Codec{pool: NewBufferPool()}
}

// DefaultCodec backs the package-level EncodeX functions.
var DefaultCodec = NewCodec()

// Pool returns the codec's buffer pool.
func (c *Codec) Pool() *BufferPool {
	return c.pool
}

// Marshal encodes m into a new byte slice owned by the caller.
func (c *Codec) Marshal(m Message) ([]byte, error) {
	bb := NewByteBuffer(DefaultBufferSize)
	if err := m.encodeTo(c, bb); err != nil {
		return nil, err
	}
	return bb.Bytes(), nil
}

// Unmarshal decodes data into m. Fields present in data overwrite m;
// repeated fields are appended to.
func (c *Codec) Unmarshal(data []byte, m Message) error {
	return m.decodeFrom(WrapByteBuffer(data))
}

// writeNested emits a length-delimited sub-message for field.
func (c *Codec) writeNested(bb *ByteBuffer, field uint32, m Message) error {
	return c.pool.With(func(nested *ByteBuffer) error {
		if err := m.encodeTo(c, nested); err != nil {
			return err
		}
		bb.WriteVarint32(Tag(field, WireBytes))
		bb.WriteVarint32(uint32(nested.Len()))
		bb.WriteByteBuffer(nested)
		return nil
	})
}

// writePackedInt32 emits values as one length-delimited block of varints.
// A nil slice writes nothing; an empty one writes a zero-length block.
func (c *Codec) writePackedInt32(bb *ByteBuffer, field uint32, values []int32) error {
	if values == nil {
		return nil
	}
	return c.pool.With(func(packed *ByteBuffer) error {
		for _, v := range values {
			packed.WriteVarint64(LongFromInt32(v))
		}
		bb.WriteVarint32(Tag(field, WireBytes))
		bb.WriteVarint32(uint32(packed.Len()))
		bb.WriteByteBuffer(packed)
		return nil
	})
}

func writeStringField(bb *ByteBuffer, field uint32, v *string) {
	if v == nil {
		return
	}
	bb.WriteVarint32(Tag(field, WireBytes))
	bb.WriteString(*v)
}

func writeBytesField(bb *ByteBuffer, field uint32, v []byte) {
	if v == nil {
		return
	}
	bb.WriteVarint32(Tag(field, WireBytes))
	bb.WriteVarint32(uint32(len(v)))
	bb.WriteBytes(v)
}

func writeInt32Field(bb *ByteBuffer, field uint32, v *int32) {
	if v == nil {
		return
	}
	bb.WriteVarint32(Tag(field, WireVarint))
	bb.WriteVarint64(LongFromInt32(*v))
}

// writeBoolField emits a bool as one raw byte rather than a varint.
func writeBoolField(bb *ByteBuffer, field uint32, v *bool) {
	if v == nil {
		return
	}
	bb.WriteVarint32(Tag(field, WireVarint))
	if *v {
		bb.WriteByte(1)
	} else {
		bb.WriteByte(0)
	}
}

func readStringField(bb *ByteBuffer) (*string, error) {
	n, err := bb.ReadVarint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(bb.Limit()-bb.Offset()) {
		return nil, ErrReadPastLimit
	}
	s, err := bb.ReadString(int(n))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// readBytesField returns a copy, so the message does not alias the frame.
func readBytesField(bb *ByteBuffer) ([]byte, error) {
	n, err := bb.ReadVarint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(bb.Limit()-bb.Offset()) {
		return nil, ErrReadPastLimit
	}
	raw, err := bb.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func readInt32Field(bb *ByteBuffer) (*int32, error) {
	v, err := bb.ReadVarint32()
	if err != nil {
		return nil, err
	}
	i := int32(v)
	return &i, nil
}

func readBoolField(bb *ByteBuffer) (*bool, error) {
	b, err := bb.ReadByte()
	if err != nil {
		return nil, err
	}
	v := b != 0
	return &v, nil
}

// readRepeatedInt32 appends one element (wire type 0) or a packed block
// (wire type 2) to dst. A packed block always yields a non-nil slice.
func readRepeatedInt32(bb *ByteBuffer, wt WireType, dst []int32) ([]int32, error) {
	if wt != WireBytes {
		v, err := bb.ReadVarint32()
		if err != nil {
			return dst, err
		}
		return append(dst, int32(v)), nil
	}
	outer, err := bb.PushTemporaryLength()
	if err != nil {
		return dst, err
	}
	if dst == nil {
		dst = []int32{}
	}
	for !bb.IsAtEnd() {
		v, err := bb.ReadVarint32()
		if err != nil {
			return dst, err
		}
		dst = append(dst, int32(v))
	}
	return dst, bb.SetLimit(outer)
}

// readNested decodes a length-delimited sub-message into m.
func readNested(bb *ByteBuffer, m Message) error {
	outer, err := bb.PushTemporaryLength()
	if err != nil {
		return err
	}
	if err := m.decodeFrom(bb); err != nil {
		return err
	}
	// A zero tag may end the nested message early; skip what is left of it.
	if err := bb.Skip(bb.Limit() - bb.Offset()); err != nil {
		return err
	}
	return bb.SetLimit(outer)
}
