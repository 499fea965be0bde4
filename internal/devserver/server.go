package devserver

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

const (
	// WallSize is the number of tiles in a full wall.
	WallSize = 136

	// HandSize is the number of tiles dealt to a player on joining.
	HandSize = 13

	// MaxPlayers is the number of seats in a room.
	MaxPlayers = 4

	writeTimeout = 10 * time.Second
)

// Server is a reference game server speaking the envelope protocol. It
// seats players, deals hands from a shuffled wall and relays actions; it
// applies no game rules.
type Server struct {
	logger   *slog.Logger
	codec    *protocol.Codec
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rng   *rand.Rand
	rooms map[string]*room
}

// Option configures a Server.
type Option func(*Server)

// WithSeed makes wall shuffles deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Server) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// New creates a Server.
func New(logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger: logger.With("component", "devserver"),
		codec:  protocol.DefaultCodec,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Game clients are not browsers; any origin is accepted.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		rooms: make(map[string]*room),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return s
}

// Handler returns the HTTP routes:
//
//	GET /ws      WebSocket endpoint
//	GET /health  liveness probe
//	GET /rooms   room membership as JSON
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/rooms", s.handleRooms)
	return r
}

// RoomInfo describes a room in the /rooms listing.
type RoomInfo struct {
	ID             string   `json:"id"`
	Players        []string `json:"players"`
	RemainingTiles int      `json:"remaining_tiles"`
}

// Rooms returns the current rooms sorted by id.
func (s *Server) Rooms() []RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]RoomInfo, 0, len(s.rooms))
	for _, rm := range s.rooms {
		info := RoomInfo{ID: rm.id, RemainingTiles: len(rm.wall)}
		for _, p := range rm.players {
			info.Players = append(info.Players, p.playerID)
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Rooms()); err != nil {
		s.logger.Error("encode rooms", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}

	c := &conn{
		id:     uuid.NewString(),
		ws:     ws,
		server: s,
	}
	c.logger = s.logger.With("conn", c.id)
	c.logger.Info("connection opened", "remote", r.RemoteAddr)

	c.readLoop()
	s.leave(c)
	ws.Close()
	c.logger.Info("connection closed")
}

// newWall returns a shuffled wall. Must be called with s.mu held.
func (s *Server) newWall() []int32 {
	wall := make([]int32, WallSize)
	for i := range wall {
		wall[i] = int32(i)
	}
	s.rng.Shuffle(len(wall), func(i, j int) { wall[i], wall[j] = wall[j], wall[i] })
	return wall
}
