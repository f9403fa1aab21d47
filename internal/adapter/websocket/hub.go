// Package websocket pushes session feedback to browser clients and accepts
// typed or transcribed utterances over the same connection.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Message is the envelope of every frame the hub writes.
type Message struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

const (
	TypeSay     = "say"
	TypeResult  = "result"
	TypeError   = "error"
	TypeCommand = "command"
)

type envelope struct {
	userID string
	// client restricts delivery to one connection when set.
	client  *Client
	payload []byte
}

type Hub struct {
	// Registered clients, by user.
	clients map[string]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Outbound messages addressed to a user or a single client.
	direct chan envelope

	done chan struct{}
	mu   sync.RWMutex
	log  *zap.Logger
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn *websocket.Conn
	// Buffered channel of outbound messages.
	send chan []byte
	// User ID
	userID string
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan envelope, sendBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client registry until ctx is cancelled. Every client still
// connected at that point is closed.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for _, set := range h.clients {
			for client := range set {
				close(client.send)
			}
		}
		h.clients = make(map[string]map[*Client]bool)
		h.mu.Unlock()
	}()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.userID] = set
			}
			set[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
		case env := <-h.direct:
			h.mu.Lock()
			for client := range h.clients[env.userID] {
				if env.client != nil && env.client != client {
					continue
				}
				select {
				case client.send <- env.payload:
				default:
					h.log.Warn("Dropping slow websocket client", zap.String("user_id", client.userID))
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove expects h.mu to be held.
func (h *Hub) remove(client *Client) {
	set := h.clients[client.userID]
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// ClientCount reports the connections open for a user.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser queues msg for every connection of the user. It never blocks
// once the hub has stopped.
func (h *Hub) SendToUser(userID string, msg Message) {
	h.enqueue(envelope{userID: userID}, msg)
}

func (h *Hub) sendToClient(c *Client, msg Message) {
	h.enqueue(envelope{userID: c.userID, client: c}, msg)
}

func (h *Hub) enqueue(env envelope, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("Failed to encode websocket message", zap.Error(err))
		return
	}
	env.payload = payload
	select {
	case h.direct <- env:
	case <-h.done:
	}
}

// Notifier returns the spoken-feedback channel of one user's session.
func (h *Hub) Notifier(userID string) ports.Notifier {
	return userNotifier{hub: h, userID: userID}
}

type userNotifier struct {
	hub    *Hub
	userID string
}

func (n userNotifier) Say(message string) {
	n.hub.SendToUser(n.userID, Message{Type: TypeSay, Message: message})
}

// HandleCommandEvent forwards a published command log entry to the user it
// belongs to. It is meant to be subscribed to the command event subject so
// every instance's clients see commands processed anywhere.
func (h *Hub) HandleCommandEvent(data []byte) error {
	var head struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.UserID == "" {
		return nil
	}
	h.SendToUser(head.UserID, Message{Type: TypeCommand, Data: json.RawMessage(data)})
	return nil
}

// Serve registers conn and blocks until the connection closes. onText
// handles each inbound text frame; a non-nil reply is written back to the
// same connection.
func (h *Hub) Serve(conn *websocket.Conn, userID string, onText func(msg []byte) *Message) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), userID: userID}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump(onText)
}

func (c *Client) readPump(onText func(msg []byte) *Message) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		messageType, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("Websocket closed unexpectedly", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage || onText == nil {
			continue
		}
		if reply := onText(msg); reply != nil {
			c.hub.sendToClient(c, *reply)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
