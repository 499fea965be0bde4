package devserver

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

// conn is one client connection.
type conn struct {
	id     string
	ws     *websocket.Conn
	server *Server
	logger *slog.Logger

	writeMu sync.Mutex

	// Guarded by server.mu.
	playerID string
	room     *room
	hand     []int32
	discards []int32
}

// outbound is a frame addressed to one connection.
type outbound struct {
	to     *conn
	action protocol.Action
	msg    protocol.Message
}

func (c *conn) readLoop() {
	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("read failed", "error", err)
			}
			return
		}
		if mt != websocket.BinaryMessage {
			c.logger.Warn("ignoring non-binary frame", "type", mt)
			continue
		}

		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			c.logger.Error("decode envelope", "error", err)
			continue
		}
		c.server.deliver(c.handle(protocol.Action(env.GetAction()), env.GetData()))
	}
}

// handle applies one client message and returns the frames to send.
func (c *conn) handle(action protocol.Action, data []byte) []outbound {
	s := c.server
	switch action {
	case protocol.ActionJoinRoom:
		var req protocol.JoinRoomReq
		if err := s.codec.Unmarshal(data, &req); err != nil {
			c.logger.Error("decode payload", "action", action, "error", err)
			return nil
		}
		return s.join(c, req.GetRoomID(), req.GetPlayerID())

	case protocol.ActionDiscardTile, protocol.ActionPlayerAction:
		var act protocol.PlayerActionData
		if err := s.codec.Unmarshal(data, &act); err != nil {
			c.logger.Error("decode payload", "action", action, "error", err)
			return nil
		}
		return s.act(c, action, &act)

	default:
		c.logger.Info("ignoring unknown action", "action", action, "bytes", len(data))
		return nil
	}
}

func (s *Server) join(c *conn, roomID, playerID string) []outbound {
	s.mu.Lock()
	defer s.mu.Unlock()

	reject := func(msg string) []outbound {
		c.logger.Info("join rejected", "room", roomID, "player", playerID, "reason", msg)
		return []outbound{{c, protocol.ActionJoinRoomRes, &protocol.JoinRoomRes{
			Success: protocol.Bool(false),
			Message: protocol.String(msg),
		}}}
	}
	switch {
	case roomID == "" || playerID == "":
		return reject("room_id and player_id are required")
	case c.room != nil:
		return reject("already in room " + c.room.id)
	}

	rm, ok := s.rooms[roomID]
	if !ok {
		rm = &room{id: roomID, wall: s.newWall()}
		s.rooms[roomID] = rm
	}
	if len(rm.players) >= MaxPlayers {
		return reject("room is full")
	}
	for _, p := range rm.players {
		if p.playerID == playerID {
			return reject("player " + playerID + " is already seated")
		}
	}

	c.playerID = playerID
	c.room = rm
	rm.players = append(rm.players, c)
	c.logger.Info("player joined", "room", roomID, "player", playerID, "seat", len(rm.players)-1)

	out := []outbound{{c, protocol.ActionJoinRoomRes, &protocol.JoinRoomRes{
		Success: protocol.Bool(true),
		Message: protocol.String(fmt.Sprintf("joined %s", roomID)),
	}}}
	out = append(out, rm.broadcast(protocol.ActionSyncState, rm.state())...)

	c.hand = rm.draw(HandSize)
	out = append(out, outbound{c, protocol.ActionDealTiles, &protocol.DealTilesData{
		Tiles: slices.Clone(c.hand),
	}})
	return out
}

func (s *Server) act(c *conn, action protocol.Action, act *protocol.PlayerActionData) []outbound {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm := c.room
	if rm == nil {
		return []outbound{{c, protocol.ActionPlayerActionRes, &protocol.PlayerActionRes{
			Success: protocol.Bool(false),
			Message: protocol.String("not in a room"),
		}}}
	}

	if action == protocol.ActionDiscardTile {
		tile := act.GetTileID()
		if i := slices.Index(c.hand, tile); i >= 0 {
			c.hand = slices.Delete(c.hand, i, i+1)
		}
		c.discards = append(c.discards, tile)
		rm.turn = (rm.seatOf(c) + 1) % len(rm.players)
	}

	out := []outbound{{c, protocol.ActionPlayerActionRes, &protocol.PlayerActionRes{
		Success: protocol.Bool(true),
	}}}
	return append(out, rm.broadcast(protocol.ActionBroadcast, &protocol.ActionBroadcastData{
		PlayerID:   protocol.String(c.playerID),
		ActionType: protocol.Int32(act.GetActionType()),
		TileID:     protocol.Int32(act.GetTileID()),
	})...)
}

// leave removes c from its room and tells the others.
func (s *Server) leave(c *conn) {
	s.mu.Lock()
	rm := c.room
	if rm == nil {
		s.mu.Unlock()
		return
	}
	if i := rm.seatOf(c); i >= 0 {
		rm.players = slices.Delete(rm.players, i, i+1)
	}
	c.room = nil
	var out []outbound
	if len(rm.players) == 0 {
		delete(s.rooms, rm.id)
	} else {
		rm.turn %= len(rm.players)
		out = rm.broadcast(protocol.ActionSyncState, rm.state())
	}
	s.mu.Unlock()

	c.logger.Info("player left", "room", rm.id, "player", c.playerID)
	s.deliver(out)
}

// broadcast addresses msg to every player of the room.
func (rm *room) broadcast(action protocol.Action, msg protocol.Message) []outbound {
	out := make([]outbound, 0, len(rm.players))
	for _, p := range rm.players {
		out = append(out, outbound{p, action, msg})
	}
	return out
}

// deliver encodes and writes frames in order. A failed write is logged;
// the reader of that connection notices the broken socket.
func (s *Server) deliver(out []outbound) {
	for _, o := range out {
		frame, err := s.encode(o.action, o.msg)
		if err != nil {
			s.logger.Error("encode frame", "action", o.action, "error", err)
			continue
		}
		if err := o.to.write(frame); err != nil {
			o.to.logger.Warn("write failed", "action", o.action, "error", err)
		}
	}
}

func (s *Server) encode(action protocol.Action, msg protocol.Message) ([]byte, error) {
	data, err := s.codec.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return protocol.EncodeEnvelope(protocol.NewEnvelope(string(action), data))
}

func (c *conn) write(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.BinaryMessage, frame)
}
