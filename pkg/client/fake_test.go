package client

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

// fakeDialer records every Open call. Sockets never signal on their own;
// tests drive them through the handler.
type fakeDialer struct {
	mu      sync.Mutex
	sockets []*fakeSocket
}

func (d *fakeDialer) Open(url string, h SocketHandler) Socket {
	s := &fakeSocket{url: url, h: h}
	d.mu.Lock()
	d.sockets = append(d.sockets, s)
	d.mu.Unlock()
	return s
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sockets)
}

func (d *fakeDialer) socket(i int) *fakeSocket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sockets[i]
}

func (d *fakeDialer) last() *fakeSocket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sockets[len(d.sockets)-1]
}

type fakeSocket struct {
	url string
	h   SocketHandler

	mu      sync.Mutex
	sent    [][]byte
	closes  int
	sendErr error
}

func (s *fakeSocket) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	if s.closes > 0 {
		return ErrSocketClosed
	}
	s.sent = append(s.sent, append([]byte(nil), frame...))
	return nil
}

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *fakeSocket) frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.sent...)
}

func (s *fakeSocket) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// deliver simulates an inbound binary frame carrying payload for action.
func (s *fakeSocket) deliver(t *testing.T, action protocol.Action, payload protocol.Message) {
	t.Helper()
	data, err := protocol.DefaultCodec.Marshal(payload)
	require.NoError(t, err)
	s.deliverRaw(t, action, data)
}

func (s *fakeSocket) deliverRaw(t *testing.T, action protocol.Action, data []byte) {
	t.Helper()
	frame, err := protocol.EncodeEnvelope(protocol.NewEnvelope(string(action), data))
	require.NoError(t, err)
	s.h.OnMessage(BinaryMessage, frame)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestManager returns a manager on a fake transport.
func newTestManager(opts ...Option) (*Manager, *fakeDialer) {
	d := &fakeDialer{}
	opts = append([]Option{WithDialer(d), WithLogger(discardLogger())}, opts...)
	return New(opts...), d
}

// openManager returns a manager already open on url.
func openManager(t *testing.T, url string, opts ...Option) (*Manager, *fakeDialer) {
	t.Helper()
	m, d := newTestManager(opts...)
	m.Connect(url)
	require.Equal(t, 1, d.count())
	d.last().h.OnOpen()
	require.Equal(t, StateOpen, m.State())
	return m, d
}
