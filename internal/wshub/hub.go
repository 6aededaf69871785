package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/rs/xid"

	"github.com/ayushshah21/EchoVote/internal/events"
	"github.com/ayushshah21/EchoVote/internal/models"
)

// ClientMessage is the JSON envelope received from clients.
type ClientMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// ServerMessage is the JSON envelope sent to clients.
type ServerMessage struct {
	Type   string       `json:"type"`
	UserID string       `json:"userId,omitempty"`
	Song   *models.Song `json:"song,omitempty"`
	Status string       `json:"status,omitempty"`
	Volume int          `json:"volume,omitempty"`
}

const sendQueueSize = 16

// Client represents a single WebSocket connection in the hub. Its room
// and user association is owned by the hub and guarded by the hub mutex;
// both are empty until a join_room message arrives.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	roomID string
	userID string
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   xid.New().String(),
		Conn: conn,
		Send: make(chan []byte, sendQueueSize),
	}
}

// WritePump reads from the Send channel and writes to the WebSocket
// connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub tracks live connections and fans events out to all connections
// associated with a room.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	bus     *events.Bus
}

// NewHub creates a new Hub. bus may be nil when nothing listens for
// membership events.
func NewHub(bus *events.Bus) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		bus:     bus,
	}
}

// Register adds a connection to the hub, initially unassociated.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

// Join associates a connection with a room and user, then announces the
// join to the room. The joining connection receives its own user_joined.
func (h *Hub) Join(c *Client, roomID, userID string) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	c.roomID = roomID
	c.userID = userID
	h.mu.Unlock()

	h.Broadcast(roomID, ServerMessage{Type: "user_joined", UserID: userID})
	h.publish(h.busJoins(), roomID, userID)
}

// Leave announces the departure to the room, then clears the
// association. No-op for unassociated connections.
func (h *Hub) Leave(c *Client) {
	h.mu.RLock()
	roomID, userID := c.roomID, c.userID
	h.mu.RUnlock()
	if roomID == "" {
		return
	}

	// The association is still intact during the broadcast, so the
	// leaving connection receives its own user_left.
	h.Broadcast(roomID, ServerMessage{Type: "user_left", UserID: userID})

	h.mu.Lock()
	c.roomID, c.userID = "", ""
	h.mu.Unlock()
}

// Disconnect removes a connection permanently, announcing a user_left if
// it was in a room. Safe to call more than once.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	roomID, userID := c.roomID, c.userID
	c.roomID, c.userID = "", ""
	delete(h.clients, c)
	close(c.Send)
	h.mu.Unlock()

	if roomID != "" {
		h.Broadcast(roomID, ServerMessage{Type: "user_left", UserID: userID})
		h.publish(h.busDisconnects(), roomID, userID)
	}
}

// Broadcast delivers an event to every connection associated with the
// room. Delivery is best-effort: a connection whose send queue is full
// is dropped from the hub as if it had disconnected, and delivery to the
// remaining connections proceeds regardless.
func (h *Hub) Broadcast(roomID string, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Hub] marshal error: %v", err)
		return
	}

	var stuck []*Client
	h.mu.RLock()
	for c := range h.clients {
		if c.roomID != roomID {
			continue
		}
		select {
		case c.Send <- data:
		default:
			stuck = append(stuck, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stuck {
		log.Printf("[Hub] dropping unresponsive client %s", c.ID)
		h.Disconnect(c)
	}
}

// HandleMessage processes one inbound envelope. Malformed payloads and
// unknown types are dropped; the connection stays open either way.
func (h *Hub) HandleMessage(c *Client, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("[Hub] invalid message from %s: %v", c.ID, err)
		return
	}

	switch msg.Type {
	case "join_room":
		h.Join(c, msg.RoomID, msg.UserID)
	case "leave_room":
		h.Leave(c)
	}
}

// ReadPump reads frames from the connection and feeds them to the hub.
// It returns once the connection closes, after removing the client.
func (h *Hub) ReadPump(ctx context.Context, c *Client) {
	defer h.Disconnect(c)
	for {
		_, data, err := c.Conn.Read(ctx)
		if err != nil {
			return
		}
		h.HandleMessage(c, data)
	}
}

func (h *Hub) busJoins() chan events.RoomEvent {
	if h.bus == nil {
		return nil
	}
	return h.bus.Joins
}

func (h *Hub) busDisconnects() chan events.RoomEvent {
	if h.bus == nil {
		return nil
	}
	return h.bus.Disconnects
}

func (h *Hub) publish(ch chan events.RoomEvent, roomID, userID string) {
	if ch == nil {
		return
	}
	select {
	case ch <- events.RoomEvent{RoomID: roomID, UserID: userID}:
	default:
	}
}
