package devserver

import (
	"slices"

	"github.com/webmajiang/mjnet/pkg/protocol"
)

// room is a table of up to MaxPlayers connections sharing one wall.
type room struct {
	id      string
	players []*conn
	wall    []int32
	turn    int
}

func (rm *room) seatOf(c *conn) int {
	for i, p := range rm.players {
		if p == c {
			return i
		}
	}
	return -1
}

// draw takes up to n tiles from the end of the wall.
func (rm *room) draw(n int) []int32 {
	if n > len(rm.wall) {
		n = len(rm.wall)
	}
	tiles := append([]int32(nil), rm.wall[len(rm.wall)-n:]...)
	rm.wall = rm.wall[:len(rm.wall)-n]
	return tiles
}

// state builds the sync_state snapshot. Hands are not revealed.
func (rm *room) state() *protocol.SyncStateData {
	st := &protocol.SyncStateData{
		RoomID:         protocol.String(rm.id),
		CurrentWind:    protocol.Int32(0),
		RemainingTiles: protocol.Int32(int32(len(rm.wall))),
		GameState:      protocol.String(rm.gameState()),
	}
	if len(rm.players) > 0 {
		st.CurrentTurnPlayerID = protocol.String(rm.players[rm.turn%len(rm.players)].playerID)
	}
	for seat, p := range rm.players {
		st.Players = append(st.Players, &protocol.PlayerInfo{
			ID:             protocol.String(p.playerID),
			Name:           protocol.String(p.playerID),
			Seat:           protocol.Int32(int32(seat)),
			Score:          protocol.Int32(0),
			DiscardedTiles: slices.Clone(p.discards),
		})
	}
	return st
}

func (rm *room) gameState() string {
	if len(rm.players) < MaxPlayers {
		return "waiting"
	}
	return "playing"
}
