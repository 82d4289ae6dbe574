// Package nats is a concrete external transport backed by NATS via
// Watermill. It broadcasts server messages on one subject and routes
// inbound client messages, each tagged with a connection ID in a NATS
// header, back to the session layer.
package nats

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"

	"github.com/hypcn/yuzu-go/internal/transport"
)

const connIDHeader = "Yuzu-Conn-Id"

// Config configures the NATS transport.
type Config struct {
	// URL is the NATS server URL, e.g. "nats://localhost:4222".
	URL string
	// ServerSubject is the subject server broadcasts are published to.
	ServerSubject string
	// ClientSubject is the subject inbound client messages are published
	// to by whatever component bridges individual client connections onto
	// NATS (outside the scope of this library).
	ClientSubject string
	MaxReconnects int
}

// DefaultConfig returns sane defaults for local development and tests
// against an embedded nats-server.
func DefaultConfig(url string) Config {
	return Config{
		URL:           url,
		ServerSubject: "yuzu.server",
		ClientSubject: "yuzu.client",
		MaxReconnects: 10,
	}
}

// Transport is a transport.Server backed by NATS via Watermill.
type Transport struct {
	cfg        Config
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   transport.Handlers
	logger     watermill.LoggerAdapter
}

// New constructs a NATS-backed Transport. The returned Transport owns its
// own NATS publisher and subscriber connections.
func New(cfg Config) (*Transport, error) {
	logger := watermill.NewStdLogger(false, false)

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("yuzu/transport/nats: create publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Unmarshaler: &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("yuzu/transport/nats: create subscriber: %w", err)
	}

	return &Transport{cfg: cfg, publisher: pub, subscriber: sub, logger: logger}, nil
}

// SetHandlers implements transport.Server.
func (t *Transport) SetHandlers(h transport.Handlers) {
	t.handlers = h
}

// Run subscribes to the client subject and dispatches inbound messages to
// OnMessage until ctx is canceled. Connection lifecycle (OnConnect /
// OnDisconnect) is not observable over a bare pub/sub subject; a host
// wiring individual clients onto NATS subjects of their own should call
// transport.External instead, which exposes Connected/Disconnected for
// exactly that purpose.
func (t *Transport) Run(ctx context.Context) error {
	messages, err := t.subscriber.Subscribe(ctx, t.cfg.ClientSubject)
	if err != nil {
		return fmt.Errorf("yuzu/transport/nats: subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = t.subscriber.Close()
			_ = t.publisher.Close()
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			id := transport.ConnID(msg.Metadata.Get(connIDHeader))
			if t.handlers.OnMessage != nil {
				t.handlers.OnMessage(id, msg.Payload)
			}
			msg.Ack()
		}
	}
}

// Send implements transport.Server by publishing to ServerSubject with the
// destination connection ID in a header. A bridging component on the
// receiving side is expected to filter by that header.
func (t *Transport) Send(id transport.ConnID, data []byte) error {
	msg := message.NewMessage(uuid.New().String(), data)
	msg.Metadata.Set(connIDHeader, string(id))
	return t.publisher.Publish(t.cfg.ServerSubject, msg)
}

// Broadcast implements transport.Server by publishing with an empty
// connection ID header, signaling "every connection" to the bridge.
func (t *Transport) Broadcast(data []byte) {
	msg := message.NewMessage(uuid.New().String(), data)
	_ = t.publisher.Publish(t.cfg.ServerSubject, msg)
}
