package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/songparty/server/game/config"
	"github.com/songparty/server/game/player"
	"github.com/songparty/server/game/service"
)

const (
	// Send pings with this fraction of the pong deadline.
	pingFactor = 9.0 / 10.0

	// Maximum message size allowed from peer. Song submissions carry
	// whole track lists, so this is generous.
	maxMessageSize = 64 * 1024

	// Outbound send buffer per client.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

var errSendBufferFull = errors.New("client send buffer full")

// Client is one WebSocket connection together with its session context:
// the identity and current room this connection acts as. Both fields are
// written only by this connection's own handlers on the hub loop.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	username  string
	sessionID string
	room      string
}

// Send implements player.Transport. It marshals v and queues it for the
// write pump. A full buffer drops the message rather than blocking: the
// hub loop must never stall on a slow recipient, and a client that stays
// full dies on the ping deadline anyway.
func (c *Client) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// inboundFrame pairs a raw message with the connection it arrived on.
type inboundFrame struct {
	client *Client
	data   []byte
}

// Hub owns all WebSocket connections and processes every inbound message,
// across all connections, on a single event loop. Each message runs to
// completion, broadcasts included, before the next is handled, which gives
// all game-state mutations a total order.
type Hub struct {
	svc     service.GameService
	players *player.Registry
	router  *EventRouter

	clients    map[*Client]bool
	inbound    chan inboundFrame
	register   chan *Client
	unregister chan *Client

	writeWait time.Duration
	pongWait  time.Duration
}

// NewHub creates a hub over the given service. The player registry is
// consulted on close so an orphaned connection (its username re-registered
// elsewhere) cannot tear down the new connection's state.
func NewHub(svc service.GameService, players *player.Registry, cfg *config.Settings) *Hub {
	writeWait := config.DefaultWriteWait
	pongWait := config.DefaultPongWait
	if cfg != nil {
		writeWait = cfg.WriteWait
		pongWait = cfg.PongWait
	}

	h := &Hub{
		svc:        svc,
		players:    players,
		clients:    make(map[*Client]bool),
		inbound:    make(chan inboundFrame),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		writeWait:  writeWait,
		pongWait:   pongWait,
	}
	h.router = NewEventRouter(svc)
	return h
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[Hub] Connection %s opened (total: %d)", client.id, len(h.clients))

		case client := <-h.unregister:
			h.closeClient(client)

		case frame := <-h.inbound:
			h.router.Dispatch(context.Background(), frame.client, frame.data)
		}
	}
}

// closeClient runs the disconnect path for one connection. It is
// idempotent: a connection already closed is skipped, and an orphaned
// connection whose username now maps to a newer transport leaves the
// newer registration untouched.
func (h *Hub) closeClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)

	if c.username != "" {
		if t, ok := h.players.Lookup(c.username); ok && t == player.Transport(c) {
			h.svc.Disconnect(context.Background(), c.username, c.room)
		}
	}
	log.Printf("[Hub] Connection %s closed (remaining: %d)", c.id, len(h.clients))
}

// ServeWS upgrades an HTTP request and hands the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Hub] WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		id:   uuid.NewString(),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the connection into the hub loop.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Hub] Read error on %s: %v", c.id, err)
			}
			break
		}
		c.hub.inbound <- inboundFrame{client: c, data: data}
	}
}

// writePump pumps queued messages out to the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(time.Duration(float64(c.hub.pongWait) * pingFactor))
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
