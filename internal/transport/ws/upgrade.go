package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hypcn/yuzu-go/internal/logging"
)

// Upgrader wraps gorilla/websocket's upgrader with the CORS-origin check
// delegated to the caller, since origin policy belongs to the HTTP layer
// (internal/httpapi), not the transport.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler returns an http.HandlerFunc that upgrades an incoming request to
// a WebSocket connection and registers it with hub. Origin checking and
// authentication are expected to have already run in upstream middleware;
// this handler only performs the protocol upgrade.
func Handler(hub *Hub, log logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}
		client := NewClient(hub, conn, log)
		client.Start()
	}
}
