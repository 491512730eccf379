package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// NotificationHub fans notification events out to a user's connected
// websocket clients. A user may hold several connections (multiple tabs).
type NotificationHub struct {
	mutex   sync.Mutex
	clients map[uint]map[*hubClient]bool
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

var Hub = &NotificationHub{clients: map[uint]map[*hubClient]bool{}}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the portal frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HubEvent is the wire shape pushed to clients.
type HubEvent struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Subscribe upgrades the request and pumps events to the socket until the
// client disconnects. Blocks for the lifetime of the connection.
func (h *NotificationHub) Subscribe(w http.ResponseWriter, r *http.Request, userID uint) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &hubClient{conn: conn, send: make(chan []byte, 16)}

	h.mutex.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*hubClient]bool{}
	}
	h.clients[userID][client] = true
	h.mutex.Unlock()

	go client.writePump()
	client.readPump() // returns when the peer closes

	h.mutex.Lock()
	if set, ok := h.clients[userID]; ok {
		if _, live := set[client]; live {
			delete(set, client)
			close(client.send)
		}
		if len(set) == 0 {
			delete(h.clients, userID)
		}
	}
	h.mutex.Unlock()
	return nil
}

// Publish sends an event to every connection the user currently holds.
// Slow clients are dropped rather than blocking the caller.
func (h *NotificationHub) Publish(userID uint, event HubEvent) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	set, ok := h.clients[userID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("hub: failed to marshal event: %v", err)
		return
	}

	for client := range set {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(set, client)
		}
	}
}

func (c *hubClient) writePump() {
	ticker := time.NewTicker(45 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (c *hubClient) readPump() {
	c.conn.SetReadLimit(512)
	for {
		// Clients never send application data; just drain control frames.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
