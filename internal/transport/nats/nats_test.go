package nats

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/stretchr/testify/require"

	"github.com/hypcn/yuzu-go/internal/transport"
)

func startEmbeddedServer(t *testing.T) *natsserver.Server {
	t.Helper()
	opts := test.DefaultTestOptions
	opts.Port = -1
	srv := test.RunServer(&opts)
	t.Cleanup(srv.Shutdown)
	return srv
}

func TestTransportRoundTripsClientMessageToServerSubject(t *testing.T) {
	srv := startEmbeddedServer(t)
	cfg := DefaultConfig(srv.ClientURL())

	tr, err := New(cfg)
	require.NoError(t, err)

	received := make(chan string, 1)
	tr.SetHandlers(transport.Handlers{
		OnMessage: func(id transport.ConnID, data []byte) {
			received <- string(data)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tr.Run(ctx)

	time.Sleep(50 * time.Millisecond)

	producer, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, producer.publisher.Publish(cfg.ClientSubject,
		message.NewMessage(watermill.NewUUID(), []byte(`{"type":"complete"}`))))

	select {
	case msg := <-received:
		require.Equal(t, `{"type":"complete"}`, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}
