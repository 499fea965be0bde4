package protocol

// JoinRoomReq asks the server to seat a player in a room.
//
//	1: string room_id
//	2: string player_id
type JoinRoomReq struct {
	RoomID   *string
	PlayerID *string
}

func (m *JoinRoomReq) GetRoomID() string {
	if m == nil {
		return ""
	}
	return derefString(m.RoomID)
}
func (m *JoinRoomReq) GetPlayerID() string {
	if m == nil {
		return ""
	}
	return derefString(m.PlayerID)
}

func (m *JoinRoomReq) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeStringField(bb, 1, m.RoomID)
	writeStringField(bb, 2, m.PlayerID)
	return nil
}

func (m *JoinRoomReq) decodeFrom(bb *ByteBuffer) error {
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
			m.RoomID, err = readStringField(bb)
		case field == 2 && wt == WireBytes:
			m.PlayerID, err = readStringField(bb)
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// JoinRoomRes answers a JoinRoomReq.
//
//	1: bool   success
//	2: string message
type JoinRoomRes struct {
	Success *bool
	Message *string
}

func (m *JoinRoomRes) GetSuccess() bool {
	if m == nil {
		return false
	}
	return derefBool(m.Success)
}
func (m *JoinRoomRes) GetMessage() string {
	if m == nil {
		return ""
	}
	return derefString(m.Message)
}

func (m *JoinRoomRes) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeBoolField(bb, 1, m.Success)
	writeStringField(bb, 2, m.Message)
	return nil
}

func (m *JoinRoomRes) decodeFrom(bb *ByteBuffer) error {
	return decodeResult(bb, &m.Success, &m.Message)
}

// PlayerActionData is a player's move: a discard, or a claim such as pung
// or kong identified by ActionType.
//
//	1: int32 action_type
//	2: int32 tile_id
type PlayerActionData struct {
	ActionType *int32
	TileID     *int32
}

func (m *PlayerActionData) GetActionType() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.ActionType)
}
func (m *PlayerActionData) GetTileID() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.TileID)
}

func (m *PlayerActionData) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeInt32Field(bb, 1, m.ActionType)
	writeInt32Field(bb, 2, m.TileID)
	return nil
}

func (m *PlayerActionData) decodeFrom(bb *ByteBuffer) error {
	for !bb.IsAtEnd() {
		tag, err := bb.ReadVarint32()
		if err != nil {
			return err
		}
		field, wt := SplitTag(tag)
		switch {
		case field == 0:
			return nil
		case field == 1 && wt == WireVarint:
			m.ActionType, err = readInt32Field(bb)
		case field == 2 && wt == WireVarint:
			m.TileID, err = readInt32Field(bb)
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// PlayerActionRes answers a PlayerActionData.
//
//	1: bool   success
//	2: string message
type PlayerActionRes struct {
	Success *bool
	Message *string
}

func (m *PlayerActionRes) GetSuccess() bool {
	if m == nil {
		return false
	}
	return derefBool(m.Success)
}
func (m *PlayerActionRes) GetMessage() string {
	if m == nil {
		return ""
	}
	return derefString(m.Message)
}

func (m *PlayerActionRes) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeBoolField(bb, 1, m.Success)
	writeStringField(bb, 2, m.Message)
	return nil
}

func (m *PlayerActionRes) decodeFrom(bb *ByteBuffer) error {
	return decodeResult(bb, &m.Success, &m.Message)
}

// decodeResult decodes the shared {success, message} shape of the two
// response messages.
func decodeResult(bb *ByteBuffer, success **bool, message **string) error {
	for !bb.IsAtEnd() {
		tag, err := bb.ReadVarint32()
		if err != nil {
			return err
		}
		field, wt := SplitTag(tag)
		switch {
		case field == 0:
			return nil
		case field == 1 && wt == WireVarint:
			*success, err = readBoolField(bb)
		case field == 2 && wt == WireBytes:
			*message, err = readStringField(bb)
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// EncodeJoinRoomReq encodes a JoinRoomReq to bytes.
func EncodeJoinRoomReq(m *JoinRoomReq) ([]byte, error) { return DefaultCodec.Marshal(m) }

// DecodeJoinRoomReq decodes a JoinRoomReq from bytes.
func DecodeJoinRoomReq(data []byte) (*JoinRoomReq, error) {
	m := &JoinRoomReq{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeJoinRoomRes encodes a JoinRoomRes to bytes.
func EncodeJoinRoomRes(m *JoinRoomRes) ([]byte, error) { return DefaultCodec.Marshal(m) }

// DecodeJoinRoomRes decodes a JoinRoomRes from bytes.
func DecodeJoinRoomRes(data []byte) (*JoinRoomRes, error) {
	m := &JoinRoomRes{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodePlayerActionData encodes a PlayerActionData to bytes.
func EncodePlayerActionData(m *PlayerActionData) ([]byte, error) { return DefaultCodec.Marshal(m) }

// DecodePlayerActionData decodes a PlayerActionData from bytes.
func DecodePlayerActionData(data []byte) (*PlayerActionData, error) {
	m := &PlayerActionData{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodePlayerActionRes encodes a PlayerActionRes to bytes.
func EncodePlayerActionRes(m *PlayerActionRes) ([]byte, error) { return DefaultCodec.Marshal(m) }

// DecodePlayerActionRes decodes a PlayerActionRes from bytes.
func DecodePlayerActionRes(data []byte) (*PlayerActionRes, error) {
	m := &PlayerActionRes{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
