package protocol

// Envelope is the outermost message of every frame: an action name and the
// encoded payload the action's schema decodes.
//
// Wire format:
//
//	1: string action
//	2: bytes  data
type Envelope struct {
	Action *string
	Data   []byte
}

// NewEnvelope wraps encoded payload bytes for action.
func NewEnvelope(action string, data []byte) *Envelope {
	if data == nil {
		data = []byte{}
	}
	return &Envelope{Action: String(action), Data: data}
}

// GetAction returns the action, or "" when absent.
func (m *Envelope) GetAction() string {
	if m == nil || m.Action == nil {
		return ""
	}
	return *m.Action
}

// GetData returns the payload bytes, or nil when absent.
func (m *Envelope) GetData() []byte {
	if m == nil {
		return nil
	}
	return m.Data
}

func (m *Envelope) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeStringField(bb, 1, m.Action)
	writeBytesField(bb, 2, m.Data)
	return nil
}

func (m *Envelope) decodeFrom(bb *ByteBuffer) error {
	for !bb.IsAtEnd() {
		tag, err := bb.ReadVarint32()
		if err != nil {
			return err
		}
		field, wt := SplitTag(tag)
		switch {
		case field == 0:
			return nil
		case field == 1 && wt == WireBytes:
			m.Action, err = readStringField(bb)
		case field == 2 && wt == WireBytes:
			m.Data, err = readBytesField(bb)
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// EncodeEnvelope encodes an Envelope to bytes.
func EncodeEnvelope(m *Envelope) ([]byte, error) {
	return DefaultCodec.Marshal(m)
}

// DecodeEnvelope decodes an Envelope from bytes.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	m := &Envelope{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// String returns a pointer to v, for optional string fields.
func String(v string) *string { return &v }

// Int32 returns a pointer to v, for optional int32 fields.
func Int32(v int32) *int32 { return &v }

// Bool returns a pointer to v, for optional bool fields.
func Bool(v bool) *bool { return &v }

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt32(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
