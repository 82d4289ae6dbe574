// Package transport defines the pluggable delivery layer:
// yuzu.Server and yuzu.Client communicate in terms of encoded
// protocol messages and connection identifiers only, never anything
// specific to WebSockets, NATS, or any other carrier. The default carrier
// is internal/transport/ws; internal/transport/nats is a concrete
// alternative; internal/transport/external.go documents the host-callback
// contract a caller can implement for any other carrier.
package transport

import "context"

// ConnID identifies one logical connection to the transport. Its meaning
// is carrier-specific (a WebSocket connection's sequence number, a NATS
// subject suffix, ...); callers must treat it as an opaque key.
type ConnID string

// Handlers are the session layer's hooks into a Transport. A Transport
// implementation calls them as connections come and go and as messages
// arrive; it never interprets message contents itself.
type Handlers struct {
	// OnConnect is called once a new connection is ready to receive
	// messages.
	OnConnect func(id ConnID)
	// OnMessage is called for every inbound message from a connection,
	// exactly in the order the carrier delivered them.
	OnMessage func(id ConnID, data []byte)
	// OnDisconnect is called once a connection is gone, for every ConnID
	// that OnConnect fired for while Run is active. Connections still open
	// when Run returns are closed without it.
	OnDisconnect func(id ConnID)
}

// Server is the transport-side interface yuzu.Server depends on.
type Server interface {
	// Run drives the transport's event loop until ctx is canceled. It
	// returns ctx.Err() on graceful shutdown.
	Run(ctx context.Context) error
	// SetHandlers installs the session layer's callbacks. Must be called
	// before Run.
	SetHandlers(h Handlers)
	// Send delivers data to one connection. It is a no-op, not an error,
	// if the connection no longer exists: a write to a
	// connection that disconnected mid-flight is simply dropped.
	Send(id ConnID, data []byte) error
	// Broadcast delivers data to every currently connected client, in a
	// deterministic order.
	Broadcast(data []byte)
}
