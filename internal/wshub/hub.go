package wshub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coder/websocket"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type string `json:"t"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
}

const (
	MsgStart = "start"
	MsgClick = "click"
)

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type    string `json:"t"`
	ID      int    `json:"id,omitempty"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	R       int    `json:"r,omitempty"`
	Fill    string `json:"fill,omitempty"`
	Outline string `json:"outline,omitempty"`
	Width   int    `json:"lw,omitempty"`
	Value   int    `json:"v"`
	Enabled bool   `json:"on"`
	Title   string `json:"title,omitempty"`
	Text    string `json:"text,omitempty"`
}

const (
	MsgHello    = "hello"
	MsgTime     = "time"
	MsgScore    = "score"
	MsgAccuracy = "accuracy"
	MsgBest     = "best"
	MsgButton   = "button"
	MsgDraw     = "draw"
	MsgRemove   = "remove"
	MsgNotify   = "notify"
)

// Client represents a single WebSocket connection in the hub.
type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
}

func NewClient(sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, 64),
	}
}

// Deliver queues msg for the write pump, waiting while the queue is full.
func (c *Client) Deliver(ctx context.Context, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshalling %s message: %w", msg.Type, err)
	}
	select {
	case c.Send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
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

// Hub tracks the live game sessions.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.SessionID] = c
}

// Unregister removes a client. Its Send channel is left open because the
// session may still be finishing a Deliver.
func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, sessionID)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
