// Package client implements the connection manager of the game transport.
//
// A Manager owns one WebSocket connection. Outbound calls are encoded with
// the protocol registry and written as single binary frames; inbound frames
// are decoded to an action and a typed payload and fanned out to
// subscribers.
//
// # Lifecycle
//
//	Idle ──Connect──> Connecting ──open──> Open ──close──> Closed
//	                       │                                  │
//	                       └──────────── error/close ─────────┘
//
// Send only succeeds in Open. A transport error is reported through OnError
// and is always followed by a close, which is what moves the state.
//
// # Reconnection
//
// With Config.Reconnect set, a close that was not caused by Disconnect
// schedules one Connect to the last url after Config.ReconnectDelay. Connect,
// Disconnect and a successful open cancel a pending attempt.
//
// # Subscriptions
//
// Every decoded message produces two notifications: OnMessage handlers see
// (action, payload), then handlers registered with On for that action see
// the payload alone:
//
//	m := client.New(client.WithLogger(logger))
//	client.On(m, protocol.ActionDealTiles, func(d *protocol.DealTilesData) {
//	    hand = d.Tiles
//	})
//	m.Connect("ws://localhost:8080/ws")
//
// Actions without a decoder arrive as *protocol.Unknown and are also passed
// to OnUnrecognized handlers.
package client
