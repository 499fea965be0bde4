package client

import (
	"fmt"
	"sync"

	"github.com/webmajiang/mjnet/pkg/protocol"
)

// handlerList is an ordered set of handlers that can be removed by id.
type handlerList[F any] struct {
	ids []uint64
	fns []F
}

func (l *handlerList[F]) add(id uint64, fn F) {
	l.ids = append(l.ids, id)
	l.fns = append(l.fns, fn)
}

func (l *handlerList[F]) remove(id uint64) {
	for i, v := range l.ids {
		if v == id {
			l.ids = append(l.ids[:i:i], l.ids[i+1:]...)
			l.fns = append(l.fns[:i:i], l.fns[i+1:]...)
			return
		}
	}
}

// snapshot returns the handlers in registration order. The result is
// never written to, so dispatch can run without holding the lock.
func (l *handlerList[F]) snapshot() []F {
	return l.fns
}

// subscribers holds every handler registered on a Manager.
type subscribers struct {
	mu     sync.RWMutex
	nextID uint64

	connected    handlerList[func()]
	disconnected handlerList[func(code int, reason string)]
	errors       handlerList[func(err error)]
	messages     handlerList[func(action protocol.Action, payload protocol.Payload)]
	unrecognized handlerList[func(action protocol.Action, payload *protocol.Unknown)]
	actions      map[protocol.Action]*handlerList[func(protocol.Payload)]
}

func (s *subscribers) register(add func(id uint64), remove func(id uint64)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	add(id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			remove(id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) actionList(action protocol.Action) *handlerList[func(protocol.Payload)] {
	if s.actions == nil {
		s.actions = make(map[protocol.Action]*handlerList[func(protocol.Payload)])
	}
	l, ok := s.actions[action]
	if !ok {
		l = &handlerList[func(protocol.Payload)]{}
		s.actions[action] = l
	}
	return l
}

// OnConnected registers fn to run when a socket opens. The returned func
// removes the handler.
func (m *Manager) OnConnected(fn func()) (unsubscribe func()) {
	s := &m.subs
	return s.register(
		func(id uint64) { s.connected.add(id, fn) },
		func(id uint64) { s.connected.remove(id) },
	)
}

// OnDisconnected registers fn to run when the socket closes.
func (m *Manager) OnDisconnected(fn func(code int, reason string)) (unsubscribe func()) {
	s := &m.subs
	return s.register(
		func(id uint64) { s.disconnected.add(id, fn) },
		func(id uint64) { s.disconnected.remove(id) },
	)
}

// OnError registers fn to run on transport errors. A close always follows.
func (m *Manager) OnError(fn func(err error)) (unsubscribe func()) {
	s := &m.subs
	return s.register(
		func(id uint64) { s.errors.add(id, fn) },
		func(id uint64) { s.errors.remove(id) },
	)
}

// OnMessage registers fn to receive every decoded message.
func (m *Manager) OnMessage(fn func(action protocol.Action, payload protocol.Payload)) (unsubscribe func()) {
	s := &m.subs
	return s.register(
		func(id uint64) { s.messages.add(id, fn) },
		func(id uint64) { s.messages.remove(id) },
	)
}

// OnUnrecognized registers fn to receive messages whose action has no
// decoder and no handler registered with On.
func (m *Manager) OnUnrecognized(fn func(action protocol.Action, payload *protocol.Unknown)) (unsubscribe func()) {
	s := &m.subs
	return s.register(
		func(id uint64) { s.unrecognized.add(id, fn) },
		func(id uint64) { s.unrecognized.remove(id) },
	)
}

// On registers fn to receive the payloads of one action.
//
//	client.On(m, protocol.ActionSyncState, func(s *protocol.SyncStateData) {
//	    ...
//	})
//
// A payload of another type than T is logged and skipped.
func On[T protocol.Payload](m *Manager, action protocol.Action, fn func(T)) (unsubscribe func()) {
	wrapped := func(p protocol.Payload) {
		v, ok := p.(T)
		if !ok {
			m.logger.Warn("payload type mismatch", "action", action, "payload", fmt.Sprintf("%T", p))
			return
		}
		fn(v)
	}
	s := &m.subs
	return s.register(
		func(id uint64) { s.actionList(action).add(id, wrapped) },
		func(id uint64) {
			if l, ok := s.actions[action]; ok {
				l.remove(id)
			}
		},
	)
}
