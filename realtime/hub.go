package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	clientBuffer = 16
	writeWait    = 10 * time.Second
	pongWait     = 90 * time.Second
	pingPeriod   = 30 * time.Second
	maxFrameSize = 8 * 1024
)

// Hub tracks every open WebSocket connection and the rooms it belongs to,
// fanning out the events published on the bus. Delivery is best effort, a
// client whose send buffer is full is disconnected.
type Hub struct {
	bus     *Bus
	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{}
}

// NewHub returns a hub fed by the given bus. Run must be called to start the
// fan-out loop.
func NewHub(bus *Bus) *Hub {
	return &Hub{
		bus:     bus,
		clients: make(map[*client]struct{}),
	}
}

// Run consumes the bus until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(ev)
		}
	}
}

// Serve registers the connection in the given rooms and blocks until it
// closes. The caller owns the upgrade and authentication.
func (h *Hub) Serve(conn *websocket.Conn, rooms ...string) {
	c := &client{
		conn:  conn,
		send:  make(chan []byte, clientBuffer),
		rooms: make(map[string]struct{}, len(rooms)),
	}
	for _, r := range rooms {
		c.rooms[r] = struct{}{}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.WithField("rooms", rooms).Debug("websocket client connected")

	go c.writePump()
	c.readPump()

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	log.WithField("rooms", rooms).Debug("websocket client disconnected")
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).WithField("event", ev.Type).Error("could not marshal event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if ev.Room != "" {
			if _, member := c.rooms[ev.Room]; !member {
				continue
			}
		}
		select {
		case c.send <- payload:
		default:
			// slow client, drop the connection rather than block the hub
			_ = c.conn.Close()
		}
	}
}

// readPump discards client frames, the protocol is push only. It returns when
// the connection errors or closes, keeping the pong deadline refreshed.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
