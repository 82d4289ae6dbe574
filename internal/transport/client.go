package transport

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ClientConn is one established connection to a server, from the
// client's point of view.
type ClientConn interface {
	// WriteMessage sends one frame.
	WriteMessage(data []byte) error
	// ReadMessage blocks until a frame arrives, the connection ends, or
	// ctx is canceled.
	ReadMessage(ctx context.Context) ([]byte, error)
	// Close ends the connection. Safe to call more than once.
	Close() error
}

// ClientCarrier dials one connection attempt to a server. session.Client
// depends on this interface rather than any concrete carrier, so it can
// run over a real WebSocket (internal/transport/ws) or over a
// host-supplied ExternalClient.
type ClientCarrier interface {
	// Dial attempts one connection to url. The returned ClientConn is
	// used for exactly one attempt; a new Dial call is made for every
	// reconnect.
	Dial(ctx context.Context, url string) (ClientConn, error)
}

// ExternalClientCallbacks is the contract a host application implements
// to carry yuzu client traffic over any transport this library doesn't
// provide directly, mirroring ExternalCallbacks on the server side.
type ExternalClientCallbacks struct {
	// HandleClientMessage sends data to the server over the host's own
	// carrier.
	HandleClientMessage func(data []byte) error
}

// ExternalClient is a transport.ClientCarrier that performs no I/O of
// its own; it is entirely driven by a host application calling its
// Deliver/Disconnected methods and providing HandleClientMessage to
// actually move bytes.
//
// Constructing an ExternalClient with a nil HandleClientMessage is a
// configuration error surfaced at construction time, matching External
// on the server side.
type ExternalClient struct {
	callbacks ExternalClientCallbacks

	mu      sync.Mutex
	current *externalConn
}

// NewExternalClient constructs an ExternalClient. callbacks.HandleClientMessage
// must be non-nil.
func NewExternalClient(callbacks ExternalClientCallbacks) (*ExternalClient, error) {
	if callbacks.HandleClientMessage == nil {
		return nil, fmt.Errorf("yuzu/transport: external client mode requires HandleClientMessage")
	}
	return &ExternalClient{callbacks: callbacks}, nil
}

// Dial implements ClientCarrier. url is ignored: the host's own carrier
// already knows how to reach the server. Dial always succeeds
// immediately and the returned conn is live at once: writes go straight
// to HandleClientMessage, and reads return whatever the host passes to
// Deliver until the host calls Disconnected.
func (e *ExternalClient) Dial(ctx context.Context, url string) (ClientConn, error) {
	conn := &externalConn{callbacks: e.callbacks, incoming: make(chan []byte, 16), closed: make(chan struct{})}
	e.mu.Lock()
	e.current = conn
	e.mu.Unlock()
	return conn, nil
}

// Deliver hands an inbound message from the host's carrier to the
// currently dialed connection, if any.
func (e *ExternalClient) Deliver(data []byte) {
	e.mu.Lock()
	conn := e.current
	e.mu.Unlock()
	if conn != nil {
		conn.deliver(data)
	}
}

// Disconnected tells the currently dialed connection that the host's
// own carrier has dropped it, causing its ReadMessage to return an
// error so session.Client's reconnect loop runs.
func (e *ExternalClient) Disconnected() {
	e.mu.Lock()
	conn := e.current
	e.current = nil
	e.mu.Unlock()
	if conn != nil {
		conn.closeWithErr(io.EOF)
	}
}

type externalConn struct {
	callbacks ExternalClientCallbacks
	incoming  chan []byte

	mu       sync.Mutex
	closed   chan struct{}
	closeErr error
}

func (c *externalConn) WriteMessage(data []byte) error {
	return c.callbacks.HandleClientMessage(data)
}

func (c *externalConn) ReadMessage(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closed:
		return nil, c.closeErr
	case data := <-c.incoming:
		return data, nil
	}
}

func (c *externalConn) Close() error {
	c.closeWithErr(nil)
	return nil
}

func (c *externalConn) closeWithErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.closed:
	default:
		c.closeErr = err
		close(c.closed)
	}
}

func (c *externalConn) deliver(data []byte) {
	select {
	case c.incoming <- data:
	case <-c.closed:
	}
}
