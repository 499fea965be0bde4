// Package devserver is a reference game server for developing and testing
// clients. It speaks the envelope protocol over WebSocket:
//
//	join_room      -> join_room_res to the sender,
//	                  sync_state to the room,
//	                  deal_tiles (13 tiles) to the sender
//	discard_tile,
//	player_action  -> player_action_res to the sender,
//	                  action_broadcast to the room
//
// Rooms seat up to four players and are created on first join. Each room
// shuffles its own 136-tile wall. No game rules are applied.
package devserver
