package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/transport"
)

func TestClientExceedingRateLimitIsDisconnected(t *testing.T) {
	hub := NewHub(logging.Nop())
	hub.SetMessageRateLimit(rate.Limit(1), 1)
	go hub.Run(t.Context())

	received := make(chan struct{}, 16)
	hub.SetHandlers(transport.Handlers{
		OnMessage: func(id transport.ConnID, data []byte) { received <- struct{}{} },
	})

	srv := httptest.NewServer(Handler(hub, logging.Nop()))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"complete"}`)))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}
