package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketDialer opens sockets with gorilla/websocket.
type WebSocketDialer struct {
	config *Config
	dialer *websocket.Dialer
	header http.Header
	logger *slog.Logger
}

// NewWebSocketDialer creates a dialer using the timeouts and limits of cfg.
// A nil cfg uses DefaultConfig.
func NewWebSocketDialer(cfg *Config, logger *slog.Logger) *WebSocketDialer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()
	cfg.normalize()
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketDialer{
		config: cfg,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
			ReadBufferSize:   cfg.ReadBufferSize,
			WriteBufferSize:  cfg.WriteBufferSize,
		},
		logger: logger.With("component", "websocket"),
	}
}

// WithHeader sets extra handshake headers and returns the dialer for chaining.
func (d *WebSocketDialer) WithHeader(h http.Header) *WebSocketDialer {
	d.header = h
	return d
}

// Open starts dialing url in the background.
func (d *WebSocketDialer) Open(url string, h SocketHandler) Socket {
	ctx, cancel := context.WithCancel(context.Background())
	s := &wsSocket{
		config: d.config,
		logger: d.logger.With("url", url),
		cancel: cancel,
	}
	go s.run(ctx, d.dialer, url, d.header, h)
	return s
}

// wsSocket is one gorilla connection. run owns the read side; Send and
// Close may be called from any goroutine.
type wsSocket struct {
	config *Config
	logger *slog.Logger
	cancel context.CancelFunc

	mu      sync.Mutex
	conn    *websocket.Conn
	closing bool

	writeMu sync.Mutex
}

func (s *wsSocket) run(ctx context.Context, dialer *websocket.Dialer, url string, header http.Header, h SocketHandler) {
	defer s.cancel()

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		s.mu.Lock()
		closing := s.closing
		s.mu.Unlock()
		if closing {
			h.OnClose(CloseNormal, "closed while connecting")
			return
		}
		s.logger.Debug("dial failed", "error", err)
		h.OnError(err)
		h.OnClose(CloseAbnormal, err.Error())
		return
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		conn.Close()
		h.OnClose(CloseNormal, "closed while connecting")
		return
	}
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	conn.SetReadLimit(s.config.MaxMessageSize)
	h.OnOpen()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			code, reason := s.closeStatus(err)
			if code == CloseAbnormal {
				h.OnError(err)
			}
			h.OnClose(code, reason)
			return
		}
		h.OnMessage(MessageKind(mt), data)
	}
}

// closeStatus maps a read error to a close code and reason.
func (s *wsSocket) closeStatus(err error) (int, string) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text
	}
	s.mu.Lock()
	closing := s.closing
	s.mu.Unlock()
	if closing {
		// The peer did not answer our close frame before the deadline.
		return CloseNormal, ""
	}
	return CloseAbnormal, err.Error()
}

// Send writes one binary frame.
func (s *wsSocket) Send(frame []byte) error {
	s.mu.Lock()
	conn, closing := s.conn, s.closing
	s.mu.Unlock()
	if conn == nil || closing {
		return ErrSocketClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Close sends a close frame and waits at most WriteTimeout for the peer's
// reply in the read loop. A socket still dialing is cancelled.
func (s *wsSocket) Close() error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		s.cancel()
		return nil
	}
	deadline := time.Now().Add(s.config.WriteTimeout)
	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	conn.SetReadDeadline(deadline)
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		conn.Close()
		return err
	}
	return nil
}
