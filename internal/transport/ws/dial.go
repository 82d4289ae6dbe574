package ws

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/hypcn/yuzu-go/internal/transport"
)

// DialerCarrier is the default transport.ClientCarrier: it dials a real
// WebSocket connection for every attempt.
type DialerCarrier struct{}

// Dial implements transport.ClientCarrier.
func (DialerCarrier) Dial(ctx context.Context, url string) (transport.ClientConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &dialerConn{conn: conn}, nil
}

// dialerConn adapts a *websocket.Conn to transport.ClientConn, whose
// ReadMessage is ctx-aware, unlike gorilla's.
type dialerConn struct {
	conn *websocket.Conn
}

func (d *dialerConn) WriteMessage(data []byte) error {
	return d.conn.WriteMessage(websocket.TextMessage, data)
}

func (d *dialerConn) ReadMessage(ctx context.Context) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		_, data, err := d.conn.ReadMessage()
		ch <- result{data: data, err: err}
	}()
	select {
	case <-ctx.Done():
		_ = d.conn.Close()
		return nil, ctx.Err()
	case r := <-ch:
		return r.data, r.err
	}
}

func (d *dialerConn) Close() error {
	return d.conn.Close()
}
