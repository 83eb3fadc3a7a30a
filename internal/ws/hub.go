package ws

import (
	"encoding/json"
	"log"
	"sync"

	"tradehub_backend/models"
)

// Event is the envelope for everything pushed to a live connection.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active clients, keyed by the authenticated user
// rather than by connection: a user may hold zero or many connections at once
// and a push fans out to all of them.
type Hub struct {
	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Active connections by UserID (critical for private messaging).
	userClients map[uint][]*Client

	// Mutex protecting userClients. Every mutation of the registry happens
	// under this lock, whichever goroutine it comes from.
	mutex sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		userClients: make(map[uint][]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mutex.Lock()
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	count := len(h.userClients[client.UserID])
	h.mutex.Unlock()

	log.Printf("User %d connected (conn %s). Total connections for user: %d", client.UserID, client.ConnID, count)
}

func (h *Hub) removeClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.dropLocked(client)
}

// dropLocked excises a client from the registry and closes its send channel.
// Idempotent: a client already dropped (for example by SendToUser) is not
// found and nothing happens, so the channel is never closed twice. The caller
// must hold h.mutex.
func (h *Hub) dropLocked(client *Client) {
	userConns := h.userClients[client.UserID]
	for i, conn := range userConns {
		if conn != client {
			continue
		}
		h.userClients[client.UserID] = append(userConns[:i], userConns[i+1:]...)
		close(client.Send)

		count := len(h.userClients[client.UserID])
		if count == 0 {
			delete(h.userClients, client.UserID)
			log.Printf("User %d disconnected (Offline)", client.UserID)
		} else {
			log.Printf("User %d disconnected (Still has %d connections)", client.UserID, count)
		}
		return
	}
}

// SendToUser delivers a payload to every active connection of a user. A user
// with no connections is a silent no-op. A connection whose send buffer is
// full is dropped from the registry rather than blocking delivery to the
// others; later pushes simply no longer see it.
func (h *Hub) SendToUser(userID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	var stale []*Client
	for _, client := range h.userClients[userID] {
		select {
		case client.Send <- message:
		default:
			stale = append(stale, client)
		}
	}
	for _, client := range stale {
		h.dropLocked(client)
	}
}

// IsUserOnline checks if a user has any active WebSocket connection.
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.userClients[userID]
	return ok && len(clients) > 0
}

// PublishMessage pushes a persisted message to the receiver's connections and
// then echoes it to the sender's own connections, so every session of both
// participants converges on the same view. Best-effort on both legs: an
// offline participant simply does not get the push and re-fetches on
// reconnect.
func (h *Hub) PublishMessage(msg *models.Message) {
	payload, err := json.Marshal(Event{Type: "message", Payload: msg})
	if err != nil {
		log.Printf("Failed to marshal message %d for delivery: %v", msg.ID, err)
		return
	}

	h.SendToUser(msg.ReceiverID, payload)
	h.SendToUser(msg.SenderID, payload)
}
