// Package ws is the connection transport: it accepts websocket upgrades,
// frames events, and fans payloads out to named groups of connections. Who
// may see what is decided by the service layer, never here.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"navychat/services"
)

// envelope is the frame shape in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// outbound targets either a single connection (conn set) or a whole room.
type outbound struct {
	room string
	conn string
	data []byte
}

// Hub owns all live connections and the room membership table the transport
// needs for fan-out. All outbound traffic funnels through one channel, so
// deliveries within a room keep the order they were issued in.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client          // connection id -> client
	rooms   map[string]map[*Client]bool // chat id -> members

	broadcast chan outbound

	pingInterval time.Duration
	pongWait     time.Duration
}

func NewHub(pingInterval, pongWait time.Duration) *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		rooms:        make(map[string]map[*Client]bool),
		broadcast:    make(chan outbound, 256),
		pingInterval: pingInterval,
		pongWait:     pongWait,
	}
}

// Run drains the outbound queue. It never takes the service lock, so the
// service may queue traffic while holding its own.
func (h *Hub) Run() {
	for out := range h.broadcast {
		h.send(out)
	}
}

// Deliver queues a payload for one connection.
func (h *Hub) Deliver(connID, event string, payload any) {
	h.broadcast <- outbound{conn: connID, data: encode(event, payload)}
}

// Broadcast queues a payload for every current member of the room.
func (h *Hub) Broadcast(room, event string, payload any) {
	h.broadcast <- outbound{room: room, data: encode(event, payload)}
}

// JoinRoom adds the connection to the room before returning.
func (h *Hub) JoinRoom(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
}

// LeaveRoom removes the connection from the room; leaving a room the
// connection is not in is a no-op.
func (h *Hub) LeaveRoom(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) send(out outbound) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if out.conn != "" {
		if c, ok := h.clients[out.conn]; ok {
			h.trySend(c, out.data)
		}
		return
	}
	for c := range h.rooms[out.room] {
		h.trySend(c, out.data)
	}
}

// trySend never blocks: a receiver whose buffer is full loses this frame
// rather than stalling the rest of the room. Caller holds h.mu.
func (h *Hub) trySend(c *Client, data []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Client %s send buffer full, dropping frame", c.id)
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	c.closed = true
	close(c.send)
}

func encode(event string, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Encode %s payload: %v", event, err)
		return nil
	}
	frame, _ := json.Marshal(envelope{Event: event, Data: data})
	return frame
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS: allow all, same as the rest of the HTTP surface
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and runs the connection until it drops. The
// connection starts anonymous; identity is claimed over the socket itself.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, svc *services.ChatService) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.NewString(),
		svc:  svc,
	}
	// Register before the pumps start so the first frame can already be
	// answered.
	h.addClient(client)

	log.Printf("Client connected: %s", client.id)

	go client.writePump()
	go client.readPump()
}
