package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is the wire format of the live relay. Data is rebroadcast
// verbatim; the relay never inspects or persists it. Persisted messages
// go through POST /api/messages separately, and the two channels can
// diverge: a payload may be relayed without ever being stored, or
// stored without ever being delivered live.
type Event struct {
	Type      string          `json:"type"`
	Room      string          `json:"room,omitempty"`
	SenderID  uint            `json:"sender_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub tracks connected clients and their room memberships. Rooms are
// keyed by an opaque string, by convention a conversation or job id.
// Membership lives only as long as the connection; there is no backfill
// on reconnect.
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new relay hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Relay client connected: user=%d", client.UserID)

		case client := <-h.Unregister:
			h.removeClient(client)
			log.Printf("Relay client disconnected: user=%d", client.UserID)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	for room, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.clients, client)
	close(client.Send)
}

// JoinRoom adds a client to a room
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
}

// LeaveRoom removes a client from a room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members := h.rooms[room]; members != nil {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize returns the number of clients currently in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// EmitToRoom sends an event to every room member except the sender.
// Delivery is fire and forget: a member with a full send buffer is
// skipped, not retried.
func (h *Hub) EmitToRoom(room string, event *Event, exclude *Client) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling relay event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		if client == exclude {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("Relay send buffer full for user %d, dropping event", client.UserID)
		}
	}
}

// handleEvent dispatches an incoming client event
func (h *Hub) handleEvent(client *Client, event *Event) {
	switch event.Type {
	case "join_room":
		if event.Room != "" {
			h.JoinRoom(client, event.Room)
		}
	case "leave_room":
		if event.Room != "" {
			h.LeaveRoom(client, event.Room)
		}
	case "send_message":
		if event.Room != "" {
			h.EmitToRoom(event.Room, &Event{
				Type:      "receive_message",
				Room:      event.Room,
				SenderID:  client.UserID,
				Data:      event.Data,
				Timestamp: time.Now(),
			}, client)
		}
	default:
		log.Printf("Unknown relay event type %q from user %d", event.Type, client.UserID)
	}
}
