package yuzu

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/metrics"
	"github.com/hypcn/yuzu-go/internal/mirror"
	"github.com/hypcn/yuzu-go/internal/session"
	"github.com/hypcn/yuzu-go/internal/transport"
	"github.com/hypcn/yuzu-go/internal/transport/ws"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// URL is the server's WebSocket endpoint, e.g. "ws://host:8080/api/yuzu".
	// Ignored if Transport is set, since a host-supplied carrier decides
	// for itself how to reach the server.
	URL string

	// Token is a static connection token appended to the connection URL.
	// Set TokenSource instead for refreshable tokens; if both are set,
	// TokenSource wins.
	Token string
	// TokenSource overrides Token with a callback invoked on every
	// (re)connect attempt, e.g. to mint a fresh short-lived token.
	TokenSource session.TokenSource

	// ReconnectInterval is the fixed delay between reconnect attempts.
	// Defaults to 3s. Reconnection deliberately uses a fixed interval
	// rather than exponential backoff.
	ReconnectInterval time.Duration

	// Transport overrides the default WebSocket carrier, e.g. with a
	// host-supplied transport.ExternalClient. When set, URL is ignored.
	Transport transport.ClientCarrier

	Logger   logging.Logger
	Registry prometheus.Registerer
}

// Client is the subscriber side of a yuzu synchronization: it keeps a local
// mirror of the server's state tree up to date and lets application code
// subscribe to changes at any path.
type Client struct {
	session *session.Client
	mirror  *mirror.Mirror
	metrics *metrics.Metrics
	log     logging.Logger
}

// NewClient constructs a Client. The returned Client does not connect until
// Run is called. Either URL or Transport must be supplied; otherwise it
// returns ErrNoTransport.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Transport == nil && opts.URL == "" {
		return nil, ErrNoTransport
	}

	log := opts.Logger
	if log.IsZero() {
		log = logging.Default()
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.New(registry)

	token := opts.TokenSource
	if token == nil {
		token = session.StaticToken(opts.Token)
	}

	reconnectInterval := opts.ReconnectInterval
	if reconnectInterval <= 0 {
		reconnectInterval = 3 * time.Second
	}

	carrier := opts.Transport
	if carrier == nil {
		carrier = ws.DialerCarrier{}
	}

	mir := mirror.New()
	sess := session.NewClient(carrier, opts.URL, token, reconnectInterval, mir, log)
	sess.OnReconnectAttempt(func() {
		m.ReconnectAttempts.Inc()
	})

	return &Client{
		session: sess,
		mirror:  mir,
		metrics: m,
		log:     log,
	}, nil
}

// Run connects to the server and keeps reconnecting at the configured fixed
// interval until ctx is canceled or Disconnect is called.
func (c *Client) Run(ctx context.Context) error {
	return c.session.Run(ctx)
}

// IsConnected reports whether the client currently has a live connection
// on which its snapshot request has been sent.
func (c *Client) IsConnected() bool {
	return c.session.IsConnected()
}

// Disconnect closes the active connection, if any, and permanently stops
// Run from redialing. Unlike a connection dropping underneath the
// client, which does trigger a reconnect, this is the user-initiated
// way to stop synchronizing. Call Reconnect and Run again to resume.
func (c *Client) Disconnect() error {
	return c.session.Disconnect()
}

// Reconnect clears a previous Disconnect so a subsequent Run call will
// dial again.
func (c *Client) Reconnect() {
	c.session.Reconnect()
}

// Root returns a Projection positioned at the root of the mirrored tree.
func (c *Client) Root() mirror.Projection {
	return c.mirror.Root()
}

// Snapshot returns the current full mirrored tree.
func (c *Client) Snapshot() any {
	return c.mirror.Snapshot()
}

// Close closes the active connection, if any.
func (c *Client) Close() error {
	return c.session.Close()
}
