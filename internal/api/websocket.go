package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"padbridge/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local network monitoring tool; any origin may connect.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans dispatched-command events out to connected WebSocket monitors.
type Hub struct {
	clients    map[*wsClient]bool
	clientsMu  sync.RWMutex
	broadcast  chan protocol.Event
	register   chan *wsClient
	unregister chan *wsClient
	shutdown   chan struct{}
	log        *zap.SugaredLogger
}

// wsClient represents one connected monitor.
type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ip   string
}

func newHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan protocol.Event, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		shutdown:   make(chan struct{}),
		log:        log,
	}
}

// Publish queues an event for broadcast. It never blocks; when the hub is
// saturated the event is dropped, monitors are best-effort.
func (h *Hub) Publish(e protocol.Event) {
	select {
	case h.broadcast <- e:
	default:
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			h.log.Infof("Monitor connected from %s, total %d", client.ip, h.clientCount())

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Infof("Monitor disconnected from %s, total %d", client.ip, len(h.clients))
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) stop() {
	close(h.shutdown)
}

func (h *Hub) clientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcastEvent(event protocol.Event) {
	jsonMsg, err := json.Marshal(event)
	if err != nil {
		h.log.Warnf("Failed to marshal event: %v", err)
		return
	}

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- jsonMsg:
		default:
			// Slow consumer; drop it rather than stall the hub.
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("Failed to upgrade connection: %v", err)
		return
	}

	client := &wsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		ip:   r.RemoteAddr,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains inbound frames. Monitors are receive-only; reading is
// still required to process control frames and notice disconnects.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warnf("Monitor read error: %v", err)
			}
			return
		}
	}
}

// writePump pumps queued events to the connection and keeps it alive with
// periodic pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(50 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
