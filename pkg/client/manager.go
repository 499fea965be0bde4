package client

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/webmajiang/mjnet/pkg/protocol"
	"go.opentelemetry.io/otel/trace"
)

// Manager owns one connection to the game server. It frames outbound
// payloads, dispatches inbound frames to subscribers and optionally
// reconnects once after an unexpected close.
//
// A Manager is safe for concurrent use. Subscribers run on the transport's
// goroutine without any Manager lock held, so they may call Send, Connect
// or Disconnect.
type Manager struct {
	config   *Config
	dialer   Dialer
	registry *protocol.Registry
	logger   *slog.Logger
	clock    clock.Clock
	metrics  *Metrics
	tracer   trace.Tracer
	observer FrameObserver

	mu             sync.Mutex
	url            string
	socket         Socket
	gen            uint64 // identifies the current socket's callbacks
	state          State
	closeRequested bool
	timer          *clock.Timer
	timerSeq       uint64

	subs subscribers
}

// New creates a Manager in StateIdle.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:   DefaultConfig(),
		registry: protocol.DefaultRegistry(),
		logger:   slog.Default(),
		clock:    clock.New(),
		tracer:   defaultTracer(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.config.normalize()
	if m.dialer == nil {
		m.dialer = NewWebSocketDialer(m.config, m.logger)
	}
	m.logger = m.logger.With("component", "client")
	m.metrics.setState(StateIdle)
	return m
}

// State returns the connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// URL returns the last url passed to Connect.
func (m *Manager) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

// Registry returns the action registry.
func (m *Manager) Registry() *protocol.Registry {
	return m.registry
}

// Connect opens a connection to url. It does nothing when the manager is
// already open on url; any other existing socket is closed first.
// Connect cancels a pending reconnect.
func (m *Manager) Connect(url string) {
	m.mu.Lock()
	m.stopReconnectLocked()
	if m.state == StateOpen && m.socket != nil && m.url == url && !m.closeRequested {
		m.mu.Unlock()
		m.logger.Debug("already connected", "url", url)
		return
	}
	old := m.socket
	m.socket = nil
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	if old != nil {
		m.logger.Info("closing previous connection", "url", m.URL())
		if err := old.Close(); err != nil {
			m.logger.Warn("close previous connection", "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// Another Connect or a Disconnect took over meanwhile.
		return
	}
	m.url = url
	m.closeRequested = false
	m.setStateLocked(StateConnecting)
	m.logger.Info("connecting", "url", url)
	m.socket = m.dialer.Open(url, &socketHandler{m: m, gen: gen})
}

// Disconnect closes the connection and cancels a pending reconnect. The
// resulting close never triggers a reconnect. Disconnect is a no-op when
// there is no socket.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.stopReconnectLocked()
	s := m.socket
	if s == nil || m.closeRequested {
		m.mu.Unlock()
		return
	}
	m.closeRequested = true
	m.mu.Unlock()

	m.logger.Info("disconnecting")
	if err := s.Close(); err != nil {
		m.logger.Warn("close socket", "error", err)
	}
}

// Send encodes payload for action and writes it as one binary frame.
// It fails with ErrNotConnected unless the connection is open, and does
// not queue. A nil payload sends the action's empty message.
func (m *Manager) Send(action protocol.Action, payload protocol.Payload) error {
	m.mu.Lock()
	s := m.socket
	open := m.state == StateOpen && s != nil && !m.closeRequested
	m.mu.Unlock()
	if !open {
		m.logger.Warn("send while not connected", "action", action)
		m.metrics.recordSendFailure("not_connected")
		return ErrNotConnected
	}

	_, end := m.startSpan(spanSend, trace.SpanKindProducer, actionAttr(action))
	frame, err := m.registry.EncodeFrame(action, payload)
	if err != nil {
		m.logger.Error("encode frame", "action", action, "error", err)
		m.metrics.recordSendFailure("encode")
		end(err)
		return err
	}
	if err := s.Send(frame); err != nil {
		err = &SendError{Action: action, Err: err}
		m.logger.Error("send frame", "action", action, "error", err)
		m.metrics.recordSendFailure("transport")
		end(err)
		return err
	}
	end(nil)

	m.metrics.recordFrame(DirectionOutbound, len(frame))
	if m.observer != nil {
		m.observer.ObserveFrame(DirectionOutbound, frame)
	}
	m.logger.Debug("frame sent", "action", action, "bytes", len(frame))
	return nil
}

// setStateLocked must be called with m.mu held.
func (m *Manager) setStateLocked(s State) {
	m.state = s
	m.metrics.setState(s)
}

// stopReconnectLocked must be called with m.mu held.
func (m *Manager) stopReconnectLocked() {
	if m.timer == nil {
		return
	}
	m.timer.Stop()
	m.timer = nil
	m.logger.Debug("reconnect cancelled")
}

// scheduleReconnectLocked must be called with m.mu held.
func (m *Manager) scheduleReconnectLocked() {
	m.timerSeq++
	seq := m.timerSeq
	delay := m.config.ReconnectDelay
	m.timer = m.clock.AfterFunc(delay, func() {
		m.mu.Lock()
		if m.timer == nil || m.timerSeq != seq {
			m.mu.Unlock()
			return
		}
		m.timer = nil
		url := m.url
		m.mu.Unlock()

		m.logger.Info("reconnecting", "url", url)
		m.metrics.recordReconnect()
		m.Connect(url)
	})
	m.logger.Info("reconnect scheduled", "delay", delay)
}

// current reports whether gen identifies the live socket.
func (m *Manager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen == gen
}

func (m *Manager) handleOpen(gen uint64) {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.logger.Debug("ignoring open from stale socket")
		return
	}
	m.stopReconnectLocked()
	m.setStateLocked(StateOpen)
	url := m.url
	m.mu.Unlock()

	m.logger.Info("connected", "url", url)
	m.subs.mu.RLock()
	handlers := m.subs.connected.snapshot()
	m.subs.mu.RUnlock()
	for _, fn := range handlers {
		m.safeCall("connected", fn)
	}
}

func (m *Manager) handleError(gen uint64, err error) {
	if !m.current(gen) {
		m.logger.Debug("ignoring error from stale socket", "error", err)
		return
	}
	m.logger.Error("connection error", "error", err)
	m.subs.mu.RLock()
	handlers := m.subs.errors.snapshot()
	m.subs.mu.RUnlock()
	for _, fn := range handlers {
		m.safeCall("error", func() { fn(err) })
	}
}

func (m *Manager) handleClose(gen uint64, code int, reason string) {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.logger.Debug("ignoring close from stale socket", "code", code)
		return
	}
	requested := m.closeRequested
	m.closeRequested = false
	m.socket = nil
	m.setStateLocked(StateClosed)
	if m.config.Reconnect && !requested && m.timer == nil {
		m.scheduleReconnectLocked()
	}
	m.mu.Unlock()

	m.logger.Info("disconnected", "code", code, "reason", reason, "requested", requested)
	m.subs.mu.RLock()
	handlers := m.subs.disconnected.snapshot()
	m.subs.mu.RUnlock()
	for _, fn := range handlers {
		m.safeCall("disconnected", func() { fn(code, reason) })
	}
}

func (m *Manager) handleMessage(gen uint64, kind MessageKind, data []byte) {
	if !m.current(gen) {
		m.logger.Debug("ignoring frame from stale socket")
		return
	}
	if kind != BinaryMessage {
		m.logger.Warn("dropping non-binary frame", "kind", kind, "bytes", len(data))
		m.metrics.recordDropped()
		return
	}
	m.metrics.recordFrame(DirectionInbound, len(data))
	if m.observer != nil {
		m.observer.ObserveFrame(DirectionInbound, data)
	}

	span, end := m.startSpan(spanReceive, trace.SpanKindConsumer, sizeAttr(len(data)))
	in, err := m.registry.DecodeFrame(data)
	if err != nil {
		m.logger.Error("decode envelope", "error", err, "bytes", len(data))
		m.metrics.recordDecodeError("envelope")
		end(err)
		return
	}
	span.SetAttributes(actionAttr(in.Action))
	if in.PayloadErr != nil {
		m.logger.Error("decode payload", "action", in.Action, "error", in.PayloadErr)
		m.metrics.recordDecodeError("payload")
	}
	end(in.PayloadErr)

	m.logger.Debug("frame received", "action", in.Action, "bytes", len(data))
	m.dispatch(in)
}

// dispatch delivers exactly two notifications: the generic message, then
// the action-specific one. For an action without a decoder the
// action-specific notification goes to the On handlers of that action when
// there are any, otherwise to the OnUnrecognized handlers.
func (m *Manager) dispatch(in *protocol.Inbound) {
	m.subs.mu.RLock()
	messages := m.subs.messages.snapshot()
	var specific []func(protocol.Payload)
	if l, ok := m.subs.actions[in.Action]; ok {
		specific = l.snapshot()
	}
	unrecognized := m.subs.unrecognized.snapshot()
	m.subs.mu.RUnlock()

	for _, fn := range messages {
		m.safeCall("message", func() { fn(in.Action, in.Payload) })
	}

	event := "action " + string(in.Action)
	for _, fn := range specific {
		m.safeCall(event, func() { fn(in.Payload) })
	}
	if u, ok := in.Payload.(*protocol.Unknown); ok && len(specific) == 0 {
		for _, fn := range unrecognized {
			m.safeCall(event, func() { fn(in.Action, u) })
		}
	}
}

// safeCall runs a subscriber, recovering and logging a panic.
func (m *Manager) safeCall(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			herr := &HandlerError{Event: event, Panic: r, Stack: debug.Stack()}
			m.logger.Error("handler panic", "error", herr, "stack", string(herr.Stack))
			m.metrics.recordHandlerPanic()
		}
	}()
	fn()
}

// String returns a short description for logs.
func (m *Manager) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("Manager{url=%q state=%s}", m.url, m.state)
}

// socketHandler binds the callbacks of one socket to its generation.
type socketHandler struct {
	m   *Manager
	gen uint64
}

func (h *socketHandler) OnOpen()                                 { h.m.handleOpen(h.gen) }
func (h *socketHandler) OnMessage(kind MessageKind, data []byte) { h.m.handleMessage(h.gen, kind, data) }
func (h *socketHandler) OnError(err error)                       { h.m.handleError(h.gen, err) }
func (h *socketHandler) OnClose(code int, reason string)         { h.m.handleClose(h.gen, code, reason) }
