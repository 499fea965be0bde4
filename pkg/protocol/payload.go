package protocol

// Payload is the body of an Envelope. The set of payloads is closed: the
// ten message types of this package plus Unknown.
type Payload interface {
	Message
	isPayload()
}

func (*Envelope) isPayload()            {}
func (*PlayerInfo) isPayload()          {}
func (*MeldData) isPayload()            {}
func (*SyncStateData) isPayload()       {}
func (*DealTilesData) isPayload()       {}
func (*ActionBroadcastData) isPayload() {}
func (*JoinRoomReq) isPayload()         {}
func (*JoinRoomRes) isPayload()         {}
func (*PlayerActionData) isPayload()    {}
func (*PlayerActionRes) isPayload()     {}
func (*Unknown) isPayload()             {}

// Unknown holds the raw payload of an action that has no decoder.
type Unknown struct {
	Data []byte
}

func (m *Unknown) encodeTo(c *Codec, bb *ByteBuffer) error {
	bb.WriteBytes(m.Data)
	return nil
}

func (m *Unknown) decodeFrom(bb *ByteBuffer) error {
	raw, err := bb.ReadBytes(bb.Limit() - bb.Offset())
	if err != nil {
		return err
	}
	m.Data = append(m.Data[:0], raw...)
	return nil
}
