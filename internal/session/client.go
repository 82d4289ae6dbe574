package session

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/mirror"
	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/hypcn/yuzu-go/internal/transport"
)

// TokenSource supplies a connection token appended to the server URL's
// query string. Either a static string or a host-supplied callback (to
// support refreshable tokens) can be used; both are represented as a
// TokenSource so the client dial logic doesn't need to care which.
type TokenSource func() (string, error)

// StaticToken returns a TokenSource that always yields the same token.
func StaticToken(token string) TokenSource {
	return func() (string, error) { return token, nil }
}

// errNotConnected is returned by internal send paths that require a live
// connection; it never escapes to a caller of the public API.
var errNotConnected = errors.New("yuzu: client not connected")

// Client manages one logical connection to a yuzu server over a
// transport.ClientCarrier: dialing, requesting the initial snapshot,
// dispatching incoming patches into a mirror.Mirror, and reconnecting on
// connection loss.
//
// Reconnection uses a fixed interval with no backoff: the protocol
// promises clients a bounded, predictable reconnect cadence, and backoff
// would trade that guarantee for reduced server load under correlated
// outages, which this library leaves to the host to layer on top if it
// wants it. A host-initiated Disconnect is distinct from connection
// loss: it stops Run permanently rather than triggering another dial.
type Client struct {
	carrier           transport.ClientCarrier
	url               string
	token             TokenSource
	reconnectInterval time.Duration
	mirror            *mirror.Mirror
	log               logging.Logger

	onReconnectAttempt func()
	onConnectedChanged func(connected bool)

	mu        sync.Mutex
	conn      transport.ClientConn
	connected bool
	stopped   bool
	stopCh    chan struct{}
}

// NewClient constructs a Client. The returned Client does not connect
// until Run is called. carrier must not be nil.
func NewClient(carrier transport.ClientCarrier, serverURL string, token TokenSource, reconnectInterval time.Duration, m *mirror.Mirror, log logging.Logger) *Client {
	if token == nil {
		token = StaticToken("")
	}
	return &Client{
		carrier:           carrier,
		url:               serverURL,
		token:             token,
		reconnectInterval: reconnectInterval,
		mirror:            m,
		log:               log,
		stopCh:            make(chan struct{}),
	}
}

// OnReconnectAttempt installs an optional hook called on every reconnect
// attempt, for metrics.
func (c *Client) OnReconnectAttempt(fn func()) {
	c.onReconnectAttempt = fn
}

// OnConnectedChanged installs an optional hook called whenever the
// connected state flips, for metrics or UI.
func (c *Client) OnConnectedChanged(fn func(connected bool)) {
	c.onConnectedChanged = fn
}

// IsConnected reports whether the client currently has a live
// connection on which its snapshot request has been sent.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	changed := c.connected != v
	c.connected = v
	c.mu.Unlock()
	if changed && c.onConnectedChanged != nil {
		c.onConnectedChanged(v)
	}
}

// Run dials and keeps reconnecting at the fixed interval, until ctx is
// canceled or Disconnect is called.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.runOnce(ctx)
		c.setConnected(false)
		if err != nil {
			c.log.Warn().Err(err).Msg("connection ended")
		}

		if c.isStopped() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		timer := time.NewTimer(c.reconnectInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-c.stopCh:
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if c.onReconnectAttempt != nil {
			c.onReconnectAttempt()
		}
	}
}

func (c *Client) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func (c *Client) runOnce(ctx context.Context) error {
	dialURL, err := c.buildURL()
	if err != nil {
		return err
	}

	conn, err := c.carrier.Dial(ctx, dialURL)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		conn.Close()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	if err := c.send(protocol.CompleteRequest()); err != nil {
		return err
	}
	c.setConnected(true)

	for {
		data, err := conn.ReadMessage(ctx)
		if err != nil {
			return err
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			c.log.Error().Err(err).Msg("failed to decode message")
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errNotConnected
	}
	return conn.WriteMessage(data)
}

func (c *Client) dispatch(msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeComplete:
		c.mirror.Replace(msg.State)
	case protocol.TypePatch:
		if msg.Patch != nil {
			c.mirror.Apply(*msg.Patch)
		}
	case protocol.TypePatchBatch:
		c.mirror.ApplyBatch(msg.Patches)
	default:
		// Unknown message types are ignored.
	}
}

func (c *Client) buildURL() (string, error) {
	token, err := c.token()
	if err != nil {
		return "", err
	}
	if token == "" {
		return c.url, nil
	}
	u, err := url.Parse(c.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Disconnect closes the active connection, if any, and permanently stops
// Run from redialing: it is the user-initiated counterpart to connection
// loss, which does trigger a reconnect. Call Reconnect and Run again to
// resume.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	close(c.stopCh)
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

// Reconnect clears a previous Disconnect so a subsequent Run call will
// dial again. It has no effect if the client is not currently stopped.
func (c *Client) Reconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		return
	}
	c.stopped = false
	c.stopCh = make(chan struct{})
}

// Close closes the active connection and stops Run from redialing.
func (c *Client) Close() error {
	return c.Disconnect()
}
