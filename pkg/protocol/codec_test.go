package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func fourPlayerState() *SyncStateData {
	state := &SyncStateData{
		RoomID:              String("room-42"),
		CurrentWind:         Int32(2),
		RemainingTiles:      Int32(83),
		CurrentTurnPlayerID: String("p2"),
		GameState:           String("playing"),
	}
	for seat := int32(0); seat < 4; seat++ {
		base := seat * 20
		state.Players = append(state.Players, &PlayerInfo{
			ID:             String(fmt.Sprintf("p%d", seat)),
			Name:           String(fmt.Sprintf("玩家%d", seat)),
			Seat:           Int32(seat),
			Score:          Int32(1000 - 700*seat),
			HandTiles:      []int32{base, base + 1, base + 2, base + 300},
			DiscardedTiles: []int32{base + 9},
			Melds: []*MeldData{
				{Type: Int32(seat), Tiles: []int32{base + 5, base + 5, base + 5}},
			},
		})
	}
	return state
}

func TestMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		new  func() Message
	}{
		{"envelope_empty", &Envelope{}, func() Message { return &Envelope{} }},
		{"envelope_action_only", &Envelope{Action: String("sync_state")}, func() Message { return &Envelope{} }},
		{"envelope_empty_data", &Envelope{Action: String(""), Data: []byte{}}, func() Message { return &Envelope{} }},
		{"envelope_full", NewEnvelope("deal_tiles", []byte{0x0A, 0x01, 0x05}), func() Message { return &Envelope{} }},
		{"player_empty", &PlayerInfo{}, func() Message { return &PlayerInfo{} }},
		{"player_full", fourPlayerState().Players[3], func() Message { return &PlayerInfo{} }},
		{"player_empty_hand", &PlayerInfo{ID: String("p"), HandTiles: []int32{}, Melds: []*MeldData{{}}}, func() Message { return &PlayerInfo{} }},
		{"meld", &MeldData{Type: Int32(3), Tiles: []int32{1, 1, 1, 1}}, func() Message { return &MeldData{} }},
		{"meld_negative", &MeldData{Type: Int32(-1), Tiles: []int32{-5, 0, 5}}, func() Message { return &MeldData{} }},
		{"sync_state_empty", &SyncStateData{}, func() Message { return &SyncStateData{} }},
		{"sync_state_full", fourPlayerState(), func() Message { return &SyncStateData{} }},
		{"deal_tiles_nil", &DealTilesData{}, func() Message { return &DealTilesData{} }},
		{"deal_tiles_empty", &DealTilesData{Tiles: []int32{}}, func() Message { return &DealTilesData{} }},
		{"deal_tiles", &DealTilesData{Tiles: []int32{0, 35, 135, 200}}, func() Message { return &DealTilesData{} }},
		{"broadcast", &ActionBroadcastData{PlayerID: String("p1"), ActionType: Int32(2), TileID: Int32(17), RelatedTiles: []int32{16, 18}}, func() Message { return &ActionBroadcastData{} }},
		{"broadcast_partial", &ActionBroadcastData{TileID: Int32(0)}, func() Message { return &ActionBroadcastData{} }},
		{"join_req", &JoinRoomReq{RoomID: String("r"), PlayerID: String("東")}, func() Message { return &JoinRoomReq{} }},
		{"join_res_true", &JoinRoomRes{Success: Bool(true), Message: String("welcome")}, func() Message { return &JoinRoomRes{} }},
		{"join_res_false", &JoinRoomRes{Success: Bool(false)}, func() Message { return &JoinRoomRes{} }},
		{"action", &PlayerActionData{ActionType: Int32(1), TileID: Int32(42)}, func() Message { return &PlayerActionData{} }},
		{"action_negative", &PlayerActionData{ActionType: Int32(-3)}, func() Message { return &PlayerActionData{} }},
		{"action_res", &PlayerActionRes{Success: Bool(true), Message: String("")}, func() Message { return &PlayerActionRes{} }},
		{"unknown", &Unknown{Data: []byte{1, 2, 3}}, func() Message { return &Unknown{} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := DefaultCodec.Marshal(tc.msg)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			got := tc.new()
			if err := DefaultCodec.Unmarshal(data, got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.msg) {
				t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, tc.msg)
			}
		})
	}
}

func TestWireBytes(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want []byte
	}{
		{"string", &JoinRoomReq{RoomID: String("r1")}, []byte{0x0A, 0x02, 'r', '1'}},
		{"bool_true", &JoinRoomRes{Success: Bool(true)}, []byte{0x08, 0x01}},
		{"bool_false", &JoinRoomRes{Success: Bool(false)}, []byte{0x08, 0x00}},
		{"int32", &PlayerActionData{TileID: Int32(300)}, []byte{0x10, 0xAC, 0x02}},
		{"int32_negative", &PlayerActionData{ActionType: Int32(-1)}, []byte{0x08, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}},
		{"packed", &DealTilesData{Tiles: []int32{1, 2, 300}}, []byte{0x0A, 0x04, 0x01, 0x02, 0xAC, 0x02}},
		{"packed_empty", &DealTilesData{Tiles: []int32{}}, []byte{0x0A, 0x00}},
		{"packed_nil", &DealTilesData{}, []byte{}},
		{"nested", &SyncStateData{Players: []*PlayerInfo{{Seat: Int32(1)}, {}}}, []byte{0x32, 0x02, 0x18, 0x01, 0x32, 0x00}},
		{"ascending", &JoinRoomRes{Message: String("m"), Success: Bool(true)}, []byte{0x08, 0x01, 0x12, 0x01, 'm'}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DefaultCodec.Marshal(tc.msg)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("Marshal() = %x, want %x", got, tc.want)
			}
		})
	}
}

func TestNestedBoundaryIntegrity(t *testing.T) {
	want := fourPlayerState()
	data, err := EncodeSyncStateData(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSyncStateData(data)
	if err != nil {
		t.Fatalf("DecodeSyncStateData() error = %v", err)
	}
	if len(got.Players) != 4 {
		t.Fatalf("decoded %d players, want 4", len(got.Players))
	}
	for i, p := range got.Players {
		if !reflect.DeepEqual(p.HandTiles, want.Players[i].HandTiles) {
			t.Errorf("player %d hand = %v, want %v", i, p.HandTiles, want.Players[i].HandTiles)
		}
		if !reflect.DeepEqual(p.Melds, want.Players[i].Melds) {
			t.Errorf("player %d melds = %+v, want %+v", i, p.Melds, want.Players[i].Melds)
		}
		if p.GetSeat() != int32(i) || p.GetID() != fmt.Sprintf("p%d", i) {
			t.Errorf("player %d = seat %d id %q", i, p.GetSeat(), p.GetID())
		}
	}
	if got.GetGameState() != "playing" || got.GetRemainingTiles() != 83 {
		t.Errorf("trailing fields lost: %+v", got)
	}
}

func TestPackedUnpackedEquivalence(t *testing.T) {
	values := []int32{3, 0, -7, 135, 1 << 20}

	packed, err := EncodeDealTilesData(&DealTilesData{Tiles: values})
	if err != nil {
		t.Fatal(err)
	}

	unpacked := NewByteBuffer(0)
	for _, v := range values {
		unpacked.WriteVarint32(Tag(1, WireVarint))
		unpacked.WriteVarint64(LongFromInt32(v))
	}

	for name, data := range map[string][]byte{"packed": packed, "unpacked": unpacked.Bytes()} {
		got, err := DecodeDealTilesData(data)
		if err != nil {
			t.Fatalf("%s: DecodeDealTilesData() error = %v", name, err)
		}
		if !reflect.DeepEqual(got.Tiles, values) {
			t.Errorf("%s: Tiles = %v, want %v", name, got.Tiles, values)
		}
	}
}

func TestPackedAndUnpackedMixed(t *testing.T) {
	bb := NewByteBuffer(0)
	bb.WriteVarint32(Tag(2, WireVarint))
	bb.WriteVarint32(7)
	bb.WriteVarint32(Tag(2, WireBytes))
	bb.WriteVarint32(2)
	bb.WriteVarint32(8)
	bb.WriteVarint32(9)
	bb.WriteVarint32(Tag(2, WireVarint))
	bb.WriteVarint32(10)

	got, err := DecodeMeldData(bb.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if want := []int32{7, 8, 9, 10}; !reflect.DeepEqual(got.Tiles, want) {
		t.Errorf("Tiles = %v, want %v", got.Tiles, want)
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	unknown := []struct {
		name  string
		wt    WireType
		value []byte
	}{
		{"varint", WireVarint, []byte{0x96, 0x01}},
		{"fixed64", WireFixed64, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"bytes", WireBytes, []byte{0x03, 0x0A, 0x01, 'x'}},
		{"fixed32", WireFixed32, []byte{1, 2, 3, 4}},
	}

	for _, u := range unknown {
		t.Run(u.name, func(t *testing.T) {
			bb := NewByteBuffer(0)
			bb.WriteVarint32(Tag(1, WireBytes))
			bb.WriteString("room")
			bb.WriteVarint32(Tag(15, u.wt))
			bb.WriteBytes(u.value)
			bb.WriteVarint32(Tag(2, WireBytes))
			bb.WriteString("player")

			got, err := DecodeJoinRoomReq(bb.Bytes())
			if err != nil {
				t.Fatalf("DecodeJoinRoomReq() error = %v", err)
			}
			if got.GetRoomID() != "room" || got.GetPlayerID() != "player" {
				t.Errorf("got %q/%q, want room/player", got.GetRoomID(), got.GetPlayerID())
			}
		})
	}
}

func TestUnknownFieldInsideNested(t *testing.T) {
	player := NewByteBuffer(0)
	player.WriteVarint32(Tag(1, WireBytes))
	player.WriteString("p1")
	player.WriteVarint32(Tag(20, WireFixed32))
	player.WriteInt32(99)
	player.WriteVarint32(Tag(3, WireVarint))
	player.WriteVarint32(2)

	bb := NewByteBuffer(0)
	bb.WriteVarint32(Tag(6, WireBytes))
	bb.WriteVarint32(uint32(player.Len()))
	bb.WriteByteBuffer(player)
	bb.WriteVarint32(Tag(5, WireBytes))
	bb.WriteString("done")

	got, err := DecodeSyncStateData(bb.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Players) != 1 || got.Players[0].GetID() != "p1" || got.Players[0].GetSeat() != 2 {
		t.Errorf("players = %+v", got.Players)
	}
	if got.GetGameState() != "done" {
		t.Errorf("GameState = %q, want done", got.GetGameState())
	}
}

func TestUnimplementedWireTypeFails(t *testing.T) {
	data := []byte{byte(Tag(9, WireType(3))), 0x00}
	_, err := DecodeJoinRoomReq(data)
	var wtErr *UnimplementedWireTypeError
	if !errors.As(err, &wtErr) {
		t.Errorf("DecodeJoinRoomReq() error = %v, want UnimplementedWireTypeError", err)
	}
}

func TestKnownFieldWrongWireTypeSkipped(t *testing.T) {
	bb := NewByteBuffer(0)
	bb.WriteVarint32(Tag(1, WireVarint))
	bb.WriteVarint32(5)
	bb.WriteVarint32(Tag(2, WireBytes))
	bb.WriteString("p")

	got, err := DecodeJoinRoomReq(bb.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got.RoomID != nil || got.GetPlayerID() != "p" {
		t.Errorf("got %+v", got)
	}
}

func TestZeroTagEndsMessage(t *testing.T) {
	bb := NewByteBuffer(0)
	bb.WriteVarint32(Tag(1, WireBytes))
	bb.WriteString("r")
	bb.WriteByte(0)
	bb.WriteVarint32(Tag(2, WireBytes))
	bb.WriteString("ignored")

	got, err := DecodeJoinRoomReq(bb.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got.GetRoomID() != "r" || got.PlayerID != nil {
		t.Errorf("got %+v, want only RoomID", got)
	}
}

func TestZeroTagInsideNested(t *testing.T) {
	// The first player's region ends with a zero tag followed by bytes
	// that must not leak into the next player.
	first := NewByteBuffer(0)
	first.WriteVarint32(Tag(1, WireBytes))
	first.WriteString("a")
	first.WriteByte(0)
	first.WriteVarint32(Tag(2, WireBytes))
	first.WriteString("hidden")

	second := NewByteBuffer(0)
	second.WriteVarint32(Tag(1, WireBytes))
	second.WriteString("b")

	bb := NewByteBuffer(0)
	for _, p := range []*ByteBuffer{first, second} {
		bb.WriteVarint32(Tag(6, WireBytes))
		bb.WriteVarint32(uint32(p.Len()))
		bb.WriteByteBuffer(p)
	}

	got, err := DecodeSyncStateData(bb.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Players) != 2 {
		t.Fatalf("decoded %d players, want 2", len(got.Players))
	}
	if got.Players[0].GetID() != "a" || got.Players[0].Name != nil {
		t.Errorf("first player = %+v", got.Players[0])
	}
	if got.Players[1].GetID() != "b" {
		t.Errorf("second player = %+v", got.Players[1])
	}
}

func TestDecodeTruncated(t *testing.T) {
	data, err := EncodeSyncStateData(fourPlayerState())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSyncStateData(data[:len(data)-1]); err == nil {
		t.Error("DecodeSyncStateData() on truncated input returned nil error")
	}

	if _, err := DecodeEnvelope([]byte{0x0A, 0x05, 'a'}); !errors.Is(err, ErrReadPastLimit) {
		t.Errorf("DecodeEnvelope() error = %v, want %v", err, ErrReadPastLimit)
	}
}

func TestEncodeNilElement(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"player", &SyncStateData{Players: []*PlayerInfo{{}, nil}}},
		{"meld", &PlayerInfo{Melds: []*MeldData{nil}}},
	}

	for _, tc := range tests {
		if _, err := DefaultCodec.Marshal(tc.msg); !errors.Is(err, ErrNilElement) {
			t.Errorf("%s: Marshal() error = %v, want %v", tc.name, err, ErrNilElement)
		}
	}
}

func TestGettersOnNil(t *testing.T) {
	var env *Envelope
	if env.GetAction() != "" || env.GetData() != nil {
		t.Error("nil Envelope getters returned non-zero values")
	}

	var p PlayerInfo
	if p.GetID() != "" || p.GetSeat() != 0 || p.GetScore() != 0 {
		t.Error("absent PlayerInfo fields returned non-zero values")
	}
	var res JoinRoomRes
	if res.GetSuccess() || res.GetMessage() != "" {
		t.Error("absent JoinRoomRes fields returned non-zero values")
	}
}

func TestReadBytesFieldCopies(t *testing.T) {
	frame := []byte{0x12, 0x02, 0xAA, 0xBB}
	env, err := DecodeEnvelope(frame)
	if err != nil {
		t.Fatal(err)
	}
	frame[2] = 0x00
	if env.Data[0] != 0xAA {
		t.Error("Envelope.Data aliases the input frame")
	}
}

func BenchmarkEncodeSyncState(b *testing.B) {
	msg := fourPlayerState()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeSyncStateData(msg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeSyncState(b *testing.B) {
	data, err := EncodeSyncStateData(fourPlayerState())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeSyncStateData(data); err != nil {
			b.Fatal(err)
		}
	}
}

func TestGettersOnNilMessage(t *testing.T) {
	var (
		state     *SyncStateData
		player    *PlayerInfo
		meld      *MeldData
		broadcast *ActionBroadcastData
		join      *JoinRoomReq
		joinRes   *JoinRoomRes
		action    *PlayerActionData
		actionRes *PlayerActionRes
	)

	if got := state.GetRoomID(); got != "" {
		t.Errorf("GetRoomID() = %q, want empty", got)
	}
	if got := state.GetRemainingTiles(); got != 0 {
		t.Errorf("GetRemainingTiles() = %d, want 0", got)
	}
	if got := state.GetCurrentTurnPlayerID() + state.GetGameState(); got != "" {
		t.Errorf("string getters = %q, want empty", got)
	}
	if got := state.GetCurrentWind() + player.GetSeat() + player.GetScore() + meld.GetType(); got != 0 {
		t.Errorf("int32 getters = %d, want 0", got)
	}
	if got := player.GetID() + player.GetName() + broadcast.GetPlayerID(); got != "" {
		t.Errorf("string getters = %q, want empty", got)
	}
	if got := broadcast.GetActionType() + broadcast.GetTileID() + action.GetActionType() + action.GetTileID(); got != 0 {
		t.Errorf("int32 getters = %d, want 0", got)
	}
	if got := join.GetRoomID() + join.GetPlayerID() + joinRes.GetMessage() + actionRes.GetMessage(); got != "" {
		t.Errorf("string getters = %q, want empty", got)
	}
	if joinRes.GetSuccess() || actionRes.GetSuccess() {
		t.Error("GetSuccess() on nil = true, want false")
	}
}
