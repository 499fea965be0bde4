package client

// Direction tells whether a frame was received or sent.
type Direction uint8

const (
	DirectionInbound  Direction = 1
	DirectionOutbound Direction = 2
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionInbound:
		return "in"
	case DirectionOutbound:
		return "out"
	default:
		return "unknown"
	}
}

// FrameObserver sees every binary frame the manager receives and every
// frame it sends successfully. ObserveFrame runs on the caller's goroutine
// and must not retain or modify frame.
type FrameObserver interface {
	ObserveFrame(dir Direction, frame []byte)
}

// FrameObserverFunc adapts a function to FrameObserver.
type FrameObserverFunc func(dir Direction, frame []byte)

// ObserveFrame calls f(dir, frame).
func (f FrameObserverFunc) ObserveFrame(dir Direction, frame []byte) {
	f(dir, frame)
}
