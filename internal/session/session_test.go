package session

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/mirror"
	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/hypcn/yuzu-go/internal/transport/ws"
	"github.com/stretchr/testify/require"
)

func TestClientReceivesSnapshotAndPatches(t *testing.T) {
	hub := ws.NewHub(logging.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	var mu sync.Mutex
	state := map[string]any{"count": float64(0)}

	srv := NewServer(hub, func() any {
		mu.Lock()
		defer mu.Unlock()
		return state
	}, 0, logging.Nop())

	httpSrv := httptest.NewServer(ws.Handler(hub, logging.Nop()))
	defer httpSrv.Close()
	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")

	m := mirror.New()
	client := NewClient(ws.DialerCarrier{}, wsURL, nil, 50*time.Millisecond, m, logging.Nop())

	clientCtx, clientCancel := context.WithCancel(context.Background())
	defer clientCancel()
	go client.Run(clientCtx)

	require.Eventually(t, func() bool {
		v, ok := m.Root().Child("count").Get()
		return ok && v == float64(0)
	}, 2*time.Second, 10*time.Millisecond)

	srv.Patch(protocol.Patch{Path: protocol.Path{"count"}, Value: float64(1)})

	require.Eventually(t, func() bool {
		v, ok := m.Root().Child("count").Get()
		return ok && v == float64(1)
	}, 2*time.Second, 10*time.Millisecond)
}
