package transport

import (
	"context"
	"fmt"
	"sync"
)

// ExternalCallbacks is the contract a host application implements to carry
// yuzu traffic over any transport this library doesn't provide directly —
// an existing message bus, a custom RPC layer, whatever the host already
// runs. External mode delegates delivery entirely to the
// host; the library never opens a socket of its own.
//
// The host is responsible for:
//   - Calling External.Deliver(id, data) whenever the host's own carrier
//     hands it a message addressed to connection id.
//   - Calling External.Connected(id) / External.Disconnected(id) as
//     connections come and go on the host's carrier.
//   - Implementing HandleServerMessage to actually put data on the wire to
//     connection id (or to every connection, when id is "").
type ExternalCallbacks struct {
	// HandleServerMessage sends data to connection id. An empty id means
	// "every currently connected client" (used for Broadcast).
	HandleServerMessage func(id ConnID, data []byte) error
}

// External is a transport.Server that performs no I/O of its own; it is
// entirely driven by a host application calling its Connected/Disconnected
// /Deliver methods and providing HandleServerMessage to actually move
// bytes.
//
// Constructing an External with a nil HandleServerMessage is a
// configuration error the library surfaces at construction time rather
// than failing silently on the first Broadcast: misconfigured
// transports must fail fast, not drop traffic invisibly.
type External struct {
	callbacks ExternalCallbacks
	handlers  Handlers

	mu   sync.Mutex
	done chan struct{}
}

// NewExternal constructs an External transport. callbacks.HandleServerMessage
// must be non-nil.
func NewExternal(callbacks ExternalCallbacks) (*External, error) {
	if callbacks.HandleServerMessage == nil {
		return nil, fmt.Errorf("yuzu/transport: external mode requires HandleServerMessage")
	}
	return &External{callbacks: callbacks, done: make(chan struct{})}, nil
}

// SetHandlers implements transport.Server.
func (e *External) SetHandlers(h Handlers) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = h
}

// Run implements transport.Server. External has no event loop of its own;
// Run simply blocks until ctx is canceled.
func (e *External) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return nil
	}
}

// Send implements transport.Server.
func (e *External) Send(id ConnID, data []byte) error {
	return e.callbacks.HandleServerMessage(id, data)
}

// Broadcast implements transport.Server by calling HandleServerMessage with
// the empty ConnID, signaling "every connection" to the host.
func (e *External) Broadcast(data []byte) {
	_ = e.callbacks.HandleServerMessage("", data)
}

// Connected notifies the session layer that a new connection is available.
// The host calls this as connections are established on its own carrier.
func (e *External) Connected(id ConnID) {
	e.mu.Lock()
	h := e.handlers
	e.mu.Unlock()
	if h.OnConnect != nil {
		h.OnConnect(id)
	}
}

// Disconnected notifies the session layer that a connection is gone.
func (e *External) Disconnected(id ConnID) {
	e.mu.Lock()
	h := e.handlers
	e.mu.Unlock()
	if h.OnDisconnect != nil {
		h.OnDisconnect(id)
	}
}

// Deliver hands an inbound message from connection id to the session
// layer. The host calls this whenever its own carrier receives a frame
// addressed to yuzu.
func (e *External) Deliver(id ConnID, data []byte) {
	e.mu.Lock()
	h := e.handlers
	e.mu.Unlock()
	if h.OnMessage != nil {
		h.OnMessage(id, data)
	}
}

// Stop ends Run's block, for hosts that want to tear down the transport
// without canceling the context passed to Run.
func (e *External) Stop() {
	close(e.done)
}
