package protocol

// PlayerInfo describes one seat at the table.
//
//	1: string id
//	2: string name
//	3: int32  seat
//	4: int32  score
//	5: repeated int32 hand_tiles (packed)
//	6: repeated int32 discarded_tiles (packed)
//	7: repeated MeldData melds
type PlayerInfo struct {
	ID             *string
	Name           *string
	Seat           *int32
	Score          *int32
	HandTiles      []int32
	DiscardedTiles []int32
	Melds          []*MeldData
}

func (m *PlayerInfo) GetID() string {
	if m == nil {
		return ""
	}
	return derefString(m.ID)
}
func (m *PlayerInfo) GetName() string {
	if m == nil {
		return ""
	}
	return derefString(m.Name)
}
func (m *PlayerInfo) GetSeat() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.Seat)
}
func (m *PlayerInfo) GetScore() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.Score)
}

func (m *PlayerInfo) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeStringField(bb, 1, m.ID)
	writeStringField(bb, 2, m.Name)
	writeInt32Field(bb, 3, m.Seat)
	writeInt32Field(bb, 4, m.Score)
	if err := c.writePackedInt32(bb, 5, m.HandTiles); err != nil {
		return err
	}
	if err := c.writePackedInt32(bb, 6, m.DiscardedTiles); err != nil {
		return err
	}
	for _, meld := range m.Melds {
		if meld == nil {
			return ErrNilElement
		}
		if err := c.writeNested(bb, 7, meld); err != nil {
			return err
		}
	}
	return nil
}

func (m *PlayerInfo) decodeFrom(bb *ByteBuffer) error {
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
			m.ID, err = readStringField(bb)
		case field == 2 && wt == WireBytes:
			m.Name, err = readStringField(bb)
		case field == 3 && wt == WireVarint:
			m.Seat, err = readInt32Field(bb)
		case field == 4 && wt == WireVarint:
			m.Score, err = readInt32Field(bb)
		case field == 5 && (wt == WireBytes || wt == WireVarint):
			m.HandTiles, err = readRepeatedInt32(bb, wt, m.HandTiles)
		case field == 6 && (wt == WireBytes || wt == WireVarint):
			m.DiscardedTiles, err = readRepeatedInt32(bb, wt, m.DiscardedTiles)
		case field == 7 && wt == WireBytes:
			meld := &MeldData{}
			if err = readNested(bb, meld); err == nil {
				m.Melds = append(m.Melds, meld)
			}
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MeldData is an exposed set of tiles (chow, pung, kong).
//
//	1: int32 type
//	2: repeated int32 tiles (packed)
type MeldData struct {
	Type  *int32
	Tiles []int32
}

func (m *MeldData) GetType() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.Type)
}

func (m *MeldData) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeInt32Field(bb, 1, m.Type)
	return c.writePackedInt32(bb, 2, m.Tiles)
}

func (m *MeldData) decodeFrom(bb *ByteBuffer) error {
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
			m.Type, err = readInt32Field(bb)
		case field == 2 && (wt == WireBytes || wt == WireVarint):
			m.Tiles, err = readRepeatedInt32(bb, wt, m.Tiles)
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SyncStateData is a full snapshot of the table.
//
//	1: string room_id
//	2: int32  current_wind
//	3: int32  remaining_tiles
//	4: string current_turn_player_id
//	5: string game_state
//	6: repeated PlayerInfo players
type SyncStateData struct {
	RoomID              *string
	CurrentWind         *int32
	RemainingTiles      *int32
	CurrentTurnPlayerID *string
	GameState           *string
	Players             []*PlayerInfo
}

func (m *SyncStateData) GetRoomID() string {
	if m == nil {
		return ""
	}
	return derefString(m.RoomID)
}
func (m *SyncStateData) GetCurrentWind() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.CurrentWind)
}
func (m *SyncStateData) GetRemainingTiles() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.RemainingTiles)
}
func (m *SyncStateData) GetCurrentTurnPlayerID() string {
	if m == nil {
		return ""
	}
	return derefString(m.CurrentTurnPlayerID)
}
func (m *SyncStateData) GetGameState() string {
	if m == nil {
		return ""
	}
	return derefString(m.GameState)
}

func (m *SyncStateData) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeStringField(bb, 1, m.RoomID)
	writeInt32Field(bb, 2, m.CurrentWind)
	writeInt32Field(bb, 3, m.RemainingTiles)
	writeStringField(bb, 4, m.CurrentTurnPlayerID)
	writeStringField(bb, 5, m.GameState)
	for _, p := range m.Players {
		if p == nil {
			return ErrNilElement
		}
		if err := c.writeNested(bb, 6, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *SyncStateData) decodeFrom(bb *ByteBuffer) error {
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
		case field == 2 && wt == WireVarint:
			m.CurrentWind, err = readInt32Field(bb)
		case field == 3 && wt == WireVarint:
			m.RemainingTiles, err = readInt32Field(bb)
		case field == 4 && wt == WireBytes:
			m.CurrentTurnPlayerID, err = readStringField(bb)
		case field == 5 && wt == WireBytes:
			m.GameState, err = readStringField(bb)
		case field == 6 && wt == WireBytes:
			p := &PlayerInfo{}
			if err = readNested(bb, p); err == nil {
				m.Players = append(m.Players, p)
			}
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DealTilesData carries the tiles dealt to the receiving player.
//
//	1: repeated int32 tiles (packed)
type DealTilesData struct {
	Tiles []int32
}

func (m *DealTilesData) encodeTo(c *Codec, bb *ByteBuffer) error {
	return c.writePackedInt32(bb, 1, m.Tiles)
}

func (m *DealTilesData) decodeFrom(bb *ByteBuffer) error {
	for !bb.IsAtEnd() {
		tag, err := bb.ReadVarint32()
		if err != nil {
			return err
		}
		field, wt := SplitTag(tag)
		switch {
		case field == 0:
			return nil
		case field == 1 && (wt == WireBytes || wt == WireVarint):
			m.Tiles, err = readRepeatedInt32(bb, wt, m.Tiles)
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ActionBroadcastData announces a player's action to the whole room.
//
//	1: string player_id
//	2: int32  action_type
//	3: int32  tile_id
//	4: repeated int32 related_tiles (packed)
type ActionBroadcastData struct {
	PlayerID     *string
	ActionType   *int32
	TileID       *int32
	RelatedTiles []int32
}

func (m *ActionBroadcastData) GetPlayerID() string {
	if m == nil {
		return ""
	}
	return derefString(m.PlayerID)
}
func (m *ActionBroadcastData) GetActionType() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.ActionType)
}
func (m *ActionBroadcastData) GetTileID() int32 {
	if m == nil {
		return 0
	}
	return derefInt32(m.TileID)
}

func (m *ActionBroadcastData) encodeTo(c *Codec, bb *ByteBuffer) error {
	writeStringField(bb, 1, m.PlayerID)
	writeInt32Field(bb, 2, m.ActionType)
	writeInt32Field(bb, 3, m.TileID)
	return c.writePackedInt32(bb, 4, m.RelatedTiles)
}

func (m *ActionBroadcastData) decodeFrom(bb *ByteBuffer) error {
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
			m.PlayerID, err = readStringField(bb)
		case field == 2 && wt == WireVarint:
			m.ActionType, err = readInt32Field(bb)
		case field == 3 && wt == WireVarint:
			m.TileID, err = readInt32Field(bb)
		case field == 4 && (wt == WireBytes || wt == WireVarint):
			m.RelatedTiles, err = readRepeatedInt32(bb, wt, m.RelatedTiles)
		default:
			err = bb.SkipUnknownField(wt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// EncodePlayerInfo encodes a PlayerInfo to bytes.
func EncodePlayerInfo(m *PlayerInfo) ([]byte, error) { return DefaultCodec.Marshal(m) }

// DecodePlayerInfo decodes a PlayerInfo from bytes.
func DecodePlayerInfo(data []byte) (*PlayerInfo, error) {
	m := &PlayerInfo{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeMeldData encodes a MeldData to bytes.
func EncodeMeldData(m *MeldData) ([]byte, error) { return DefaultCodec.Marshal(m) }

// DecodeMeldData decodes a MeldData from bytes.
func DecodeMeldData(data []byte) (*MeldData, error) {
	m := &MeldData{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeSyncStateData encodes a SyncStateData to bytes.
func EncodeSyncStateData(m *SyncStateData) ([]byte, error) { return DefaultCodec.Marshal(m) }

// DecodeSyncStateData decodes a SyncStateData from bytes.
func DecodeSyncStateData(data []byte) (*SyncStateData, error) {
	m := &SyncStateData{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeDealTilesData encodes a DealTilesData to bytes.
func EncodeDealTilesData(m *DealTilesData) ([]byte, error) { return DefaultCodec.Marshal(m) }

// DecodeDealTilesData decodes a DealTilesData from bytes.
func DecodeDealTilesData(data []byte) (*DealTilesData, error) {
	m := &DealTilesData{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeActionBroadcastData encodes an ActionBroadcastData to bytes.
func EncodeActionBroadcastData(m *ActionBroadcastData) ([]byte, error) {
	return DefaultCodec.Marshal(m)
}

// DecodeActionBroadcastData decodes an ActionBroadcastData from bytes.
func DecodeActionBroadcastData(data []byte) (*ActionBroadcastData, error) {
	m := &ActionBroadcastData{}
	if err := DefaultCodec.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
