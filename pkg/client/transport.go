package client

import "github.com/gorilla/websocket"

// MessageKind is the WebSocket frame type of an inbound message.
type MessageKind int

const (
	TextMessage   MessageKind = websocket.TextMessage
	BinaryMessage MessageKind = websocket.BinaryMessage
)

// String returns the string representation of the message kind.
func (k MessageKind) String() string {
	switch k {
	case TextMessage:
		return "text"
	case BinaryMessage:
		return "binary"
	default:
		return "unknown"
	}
}

// Close codes reported through SocketHandler.OnClose.
const (
	CloseNormal   = websocket.CloseNormalClosure
	CloseAbnormal = websocket.CloseAbnormalClosure
)

// SocketHandler receives the lifecycle signals of one socket. Signals for
// a socket are delivered sequentially. OnClose is always the last one.
type SocketHandler interface {
	OnOpen()
	OnMessage(kind MessageKind, data []byte)
	OnError(err error)
	OnClose(code int, reason string)
}

// Socket is one opened transport connection.
type Socket interface {
	// Send writes one binary frame.
	Send(frame []byte) error

	// Close starts closing the socket. OnClose follows asynchronously.
	Close() error
}

// Dialer opens sockets.
//
// Open must not block and must not call h before it returns; the outcome
// of the dial is reported through h.
type Dialer interface {
	Open(url string, h SocketHandler) Socket
}
