package protocol

import (
	"errors"
	"fmt"
	"sort"
)

// Action names the operation an Envelope carries and selects its payload
// schema.
type Action string

// Outbound actions.
const (
	ActionJoinRoom     Action = "join_room"
	ActionDiscardTile  Action = "discard_tile"
	ActionPlayerAction Action = "player_action"
)

// Inbound actions.
const (
	ActionSyncState       Action = "sync_state"
	ActionDealTiles       Action = "deal_tiles"
	ActionJoinRoomRes     Action = "join_room_res"
	ActionPlayerActionRes Action = "player_action_res"
	ActionBroadcast       Action = "action_broadcast"
	ActionDealTilesRes    Action = "deal_tiles_res"
	ActionSortHandRes     Action = "sort_hand_res"
)

// ErrNoEncoder is returned when an action has no outbound payload schema.
var ErrNoEncoder = errors.New("protocol: no encoder for action")

// PayloadMismatchError is returned when a payload's type is not the schema
// registered for its action.
type PayloadMismatchError struct {
	Action Action
	Want   string
	Got    string
}

func (e *PayloadMismatchError) Error() string {
	return fmt.Sprintf("protocol: action %q expects %s, got %s", e.Action, e.Want, e.Got)
}

// schema binds an action to one payload type.
type schema struct {
	name    string
	accepts func(Payload) bool
	create  func() Payload
}

func schemaOf[T any, PT interface {
	*T
	Payload
}]() schema {
	return schema{
		name: fmt.Sprintf("%T", PT(nil)),
		accepts: func(p Payload) bool {
			v, ok := p.(PT)
			return ok && v != nil
		},
		create: func() Payload { return PT(new(T)) },
	}
}

// Inbound is one decoded frame.
type Inbound struct {
	Action  Action
	Payload Payload

	// PayloadErr is set when the payload bytes failed to decode. Payload
	// then holds the empty value of the action's schema.
	PayloadErr error
}

// Registry maps actions to payload schemas in both directions. It is
// immutable after construction and safe for concurrent use.
type Registry struct {
	codec    *Codec
	outbound map[Action]schema
	inbound  map[Action]schema
}

// DefaultRegistry returns the registry for the game protocol. discard_tile
// and player_action share the PlayerActionData shape.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultCodec)
}

// NewRegistry returns the game protocol registry backed by codec.
func NewRegistry(codec *Codec) *Registry {
	if codec == nil {
		codec = DefaultCodec
	}
	return &Registry{
		codec: codec,
		outbound: map[Action]schema{
			ActionJoinRoom:     schemaOf[JoinRoomReq](),
			ActionDiscardTile:  schemaOf[PlayerActionData](),
			ActionPlayerAction: schemaOf[PlayerActionData](),
		},
		inbound: map[Action]schema{
			ActionSyncState:       schemaOf[SyncStateData](),
			ActionDealTiles:       schemaOf[DealTilesData](),
			ActionJoinRoomRes:     schemaOf[JoinRoomRes](),
			ActionPlayerActionRes: schemaOf[PlayerActionRes](),
			ActionBroadcast:       schemaOf[ActionBroadcastData](),
			ActionDealTilesRes:    schemaOf[DealTilesData](),
			ActionSortHandRes:     schemaOf[DealTilesData](),
		},
	}
}

// Codec returns the codec frames are encoded with.
func (r *Registry) Codec() *Codec {
	return r.codec
}

// HasEncoder reports whether action can be sent.
func (r *Registry) HasEncoder(action Action) bool {
	_, ok := r.outbound[action]
	return ok
}

// HasDecoder reports whether action has an inbound payload schema.
func (r *Registry) HasDecoder(action Action) bool {
	_, ok := r.inbound[action]
	return ok
}

// InboundActions lists the actions with a decoder, sorted.
func (r *Registry) InboundActions() []Action {
	out := make([]Action, 0, len(r.inbound))
	for a := range r.inbound {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EncodeFrame encodes payload and wraps it in an Envelope for action.
// A nil payload encodes as the empty message of the action's schema.
func (r *Registry) EncodeFrame(action Action, payload Payload) ([]byte, error) {
	s, ok := r.outbound[action]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoEncoder, action)
	}
	if payload == nil {
		payload = s.create()
	}
	if !s.accepts(payload) {
		return nil, &PayloadMismatchError{Action: action, Want: s.name, Got: fmt.Sprintf("%T", payload)}
	}
	data, err := r.codec.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", action, err)
	}
	return r.codec.Marshal(NewEnvelope(string(action), data))
}

// DecodeFrame decodes one frame. An error means the Envelope itself is
// malformed and the frame must be dropped. A payload that fails to decode
// is reported through Inbound.PayloadErr instead.
func (r *Registry) DecodeFrame(frame []byte) (*Inbound, error) {
	env := &Envelope{}
	if err := r.codec.Unmarshal(frame, env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	in := &Inbound{Action: Action(env.GetAction())}

	s, ok := r.inbound[in.Action]
	if !ok {
		in.Payload = &Unknown{Data: env.GetData()}
		return in, nil
	}
	p := s.create()
	if err := r.codec.Unmarshal(env.GetData(), p); err != nil {
		in.Payload = s.create()
		in.PayloadErr = fmt.Errorf("decode %s payload: %w", in.Action, err)
		return in, nil
	}
	in.Payload = p
	return in, nil
}
