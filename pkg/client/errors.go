package client

import (
	"errors"
	"fmt"

	"github.com/webmajiang/mjnet/pkg/protocol"
)

// Sentinel errors for connection and send failures.
var (
	// ErrNotConnected is returned by Send when the connection is not open.
	ErrNotConnected = errors.New("client: not connected")

	// ErrSocketClosed is returned when writing to a socket that has been closed.
	ErrSocketClosed = errors.New("client: socket closed")
)

// SendError wraps a transport failure while writing a frame.
type SendError struct {
	Action protocol.Action
	Err    error // Underlying error
}

// Error returns the error message with the action that failed.
func (e *SendError) Error() string {
	return fmt.Sprintf("client: send %s: %v", e.Action, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *SendError) Unwrap() error {
	return e.Err
}

// HandlerError describes a panic recovered from a subscriber.
type HandlerError struct {
	Event string
	Panic any
	Stack []byte
}

// Error returns the error message.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("client: handler panic in %s: %v", e.Event, e.Panic)
}
