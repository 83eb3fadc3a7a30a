package ws

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"tradehub_backend/services"

	"github.com/gofiber/contrib/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096 // 4KB
)

// Client is a middleman between a websocket connection and the hub. It is
// bound to exactly one verified identity at upgrade time; inbound frames never
// carry a sender id.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	// User ID derived from the authenticated session, fixed for the lifetime
	// of the connection.
	UserID uint

	// Connection id, for log correlation only.
	ConnID string

	// Messaging core used to persist inbound sends.
	Messages *services.MessageService
}

// InboundMessage is the only frame a client may send: a new direct message.
// The sender is always the bound identity, never a field of the frame.
type InboundMessage struct {
	Type       string `json:"type"` // "message"
	ReceiverID uint   `json:"receiver_id"`
	ProductID  *uint  `json:"product_id,omitempty"`
	Content    string `json:"content"`
}

// ReadPump pumps messages from the websocket connection into the messaging
// core.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(raw []byte) {
	var frame InboundMessage
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("Error unmarshalling frame from user %d: %v", c.UserID, err)
		return
	}

	switch frame.Type {
	case "message":
		// Persist via the same path as the REST send; the hub pushes the
		// saved message to both participants afterwards.
		_, err := c.Messages.Send(c.UserID, frame.ReceiverID, frame.ProductID, frame.Content)
		if err != nil {
			log.Printf("Rejected ws message from user %d: %v", c.UserID, err)
			c.sendError(err)
		}
	default:
		log.Printf("Unknown frame type %q from user %d", frame.Type, c.UserID)
	}
}

// sendError reports a rejected send back to the submitting connection only.
func (c *Client) sendError(err error) {
	reason := "internal error"
	if errors.Is(err, services.ErrInvalidArgument) || errors.Is(err, services.ErrNotFound) {
		reason = err.Error()
	}
	payload, marshalErr := json.Marshal(Event{Type: "error", Payload: reason})
	if marshalErr != nil {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}
