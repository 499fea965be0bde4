// Package protocol implements the binary wire format of the mahjong game
// transport.
//
// Every frame on the socket is one Envelope: an action name plus the encoded
// payload for that action. Payloads use a protobuf-compatible encoding that
// is written by hand against ByteBuffer, with no reflection.
//
// # Wire Format
//
// Each field starts with a varint tag:
//
//	tag = (field_number << 3) | wire_type
//
// Wire types:
//
//   - WireVarint (0): int32, bool
//   - WireFixed64 (1): skipped when unknown
//   - WireBytes (2): string, bytes, nested messages, packed repeated int32
//   - WireFixed32 (5): skipped when unknown
//
// Field values:
//
//   - int32: varint of the value sign-extended to 64 bits (10 bytes when negative)
//   - bool: a single raw byte, 0 or 1
//   - string: varint byte length + UTF-8 bytes
//   - nested message: varint byte length + message bytes
//   - packed int32: varint byte length + concatenated varints
//
// A zero tag ends a message early. Unknown fields are skipped by wire type.
//
// # Schemas
//
//	Envelope            1:string action  2:bytes data
//	PlayerInfo          1:id 2:name 3:seat 4:score 5:hand_tiles 6:discarded_tiles 7:melds
//	MeldData            1:type 2:tiles
//	SyncStateData       1:room_id 2:current_wind 3:remaining_tiles
//	                    4:current_turn_player_id 5:game_state 6:players
//	DealTilesData       1:tiles
//	ActionBroadcastData 1:player_id 2:action_type 3:tile_id 4:related_tiles
//	JoinRoomReq         1:room_id 2:player_id
//	JoinRoomRes         1:success 2:message
//	PlayerActionData    1:action_type 2:tile_id
//	PlayerActionRes     1:success 2:message
//
// Optional scalars are pointers; nil means the field is absent on the wire.
// Repeated fields are slices; a nil slice is absent, an empty packed slice
// is written as a zero-length block.
//
// # Actions
//
// Registry binds action names to payload schemas. Outbound actions are
// join_room (JoinRoomReq) and discard_tile / player_action (both
// PlayerActionData). Inbound actions without a schema decode to Unknown.
//
// # Usage
//
//	frame, err := protocol.DefaultRegistry().EncodeFrame(protocol.ActionDiscardTile,
//	    &protocol.PlayerActionData{TileID: protocol.Int32(42)})
//
//	in, err := protocol.DefaultRegistry().DecodeFrame(frame)
//	switch p := in.Payload.(type) {
//	case *protocol.SyncStateData:
//	    ...
//	}
package protocol
