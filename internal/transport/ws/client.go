package ws

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/transport"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MiB; a complete snapshot can be large
)

// clientIDCounter assigns unique, monotonically increasing IDs so clients
// can be broadcast to in a deterministic order regardless of map iteration.
var clientIDCounter atomic.Uint64

// Client is the middleman between one WebSocket connection and the Hub.
type Client struct {
	id      uint64
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	log     logging.Logger
	limiter *rate.Limiter
}

// NewClient constructs a Client with a fresh deterministic ID. Its inbound
// message rate limit is taken from hub's current settings at construction
// time.
func NewClient(hub *Hub, conn *websocket.Conn, log logging.Logger) *Client {
	return &Client{
		id:      clientIDCounter.Add(1),
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		log:     log,
		limiter: rate.NewLimiter(hub.messageRateLimit, hub.messageBurst),
	}
}

func (c *Client) connID() transport.ConnID {
	return transport.ConnID(strconv.FormatUint(c.id, 10))
}

// Start launches the read and write pumps and registers the client with
// its hub.
func (c *Client) Start() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		if !c.limiter.Allow() {
			c.log.Warn().Str("conn", string(c.connID())).Msg("client exceeded inbound message rate, disconnecting")
			return
		}
		if c.hub.handlers.OnMessage != nil {
			c.hub.handlers.OnMessage(c.connID(), data)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Error().Err(err).Msg("failed to write message")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
