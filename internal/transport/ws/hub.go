// Package ws is the default transport.Server implementation: a
// hub-and-spoke WebSocket carrier, carrying already-encoded protocol
// messages to and from connected clients.
package ws

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/transport"
)

// Default per-client inbound message rate limit, guarding the hub against a
// single misbehaving or compromised client flooding it with requests.
const (
	defaultMessageRateLimit = rate.Limit(50)
	defaultMessageBurst     = 100
)

// Hub maintains the set of active client connections and broadcasts
// frames to them in deterministic order.
type Hub struct {
	log logging.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	handlers transport.Handlers

	onClientCountChanged func(n int)

	messageRateLimit rate.Limit
	messageBurst     int
}

// NewHub constructs a Hub. Call SetHandlers before Run.
func NewHub(log logging.Logger) *Hub {
	return &Hub{
		log:              log,
		broadcast:        make(chan []byte, 256),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		clients:          make(map[*Client]bool),
		messageRateLimit: defaultMessageRateLimit,
		messageBurst:     defaultMessageBurst,
	}
}

// SetMessageRateLimit overrides the per-client inbound message rate limit
// applied to every connection registered afterwards.
func (h *Hub) SetMessageRateLimit(limit rate.Limit, burst int) {
	h.messageRateLimit = limit
	h.messageBurst = burst
}

// SetHandlers implements transport.Server.
func (h *Hub) SetHandlers(handlers transport.Handlers) {
	h.handlers = handlers
}

// OnClientCountChanged installs an optional hook called with the current
// connected-client count every time a client registers or unregisters, for
// metrics.
func (h *Hub) OnClientCountChanged(fn func(n int)) {
	h.onClientCountChanged = fn
}

// Broadcast implements transport.Server.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- data
}

// Send implements transport.Server. It delivers to the client whose ID
// matches id, a no-op if no such client is connected.
func (h *Hub) Send(id transport.ConnID, data []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.connID() == id {
			select {
			case client.send <- data:
			default:
			}
			return nil
		}
	}
	return nil
}

// Run implements transport.Server. It drives client registration,
// deregistration, and broadcast delivery until ctx is canceled.
//
// Channel selection is priority-ordered so that
// client lifecycle events are always applied before the next broadcast is
// delivered, keeping the client set consistent with what each broadcast
// actually reaches.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.register:
			h.addClient(client)
			continue
		case client := <-h.unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.closeAllClients()
			return ctx.Err()
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case data := <-h.broadcast:
			h.broadcastToClients(data)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Int("total_clients", count).Msg("client connected")
	if h.onClientCountChanged != nil {
		h.onClientCountChanged(count)
	}
	if h.handlers.OnConnect != nil {
		h.handlers.OnConnect(client.connID())
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	// A client evicted by broadcastToClients is already gone from the map
	// but still reports its disconnect here, when its readPump exits.
	h.log.Info().Int("total_clients", count).Msg("client disconnected")
	if h.onClientCountChanged != nil {
		h.onClientCountChanged(count)
	}
	if h.handlers.OnDisconnect != nil {
		h.handlers.OnDisconnect(client.connID())
	}
}

// broadcastToClients sends a frame to every connected client in a
// deterministic order, sorted by the client's monotonic ID rather than map
// iteration order.
func (h *Hub) broadcastToClients(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			toRemove = append(toRemove, client)
		}
	}
	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// GetClientCount returns the number of currently connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
