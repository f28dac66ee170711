package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/glossary-core/internal/infrastructure/config"
	"github.com/nerrad567/glossary-core/internal/infrastructure/logging"
)

// Message types on /ws. Clients send subscribe, unsubscribe and ping; the
// server answers with response, pong or error, and pushes event frames.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"
)

// wsSendBufferSize is how many frames may queue for a slow client before
// further frames to it are dropped.
const wsSendBufferSize = 256

const (
	defaultWSMaxMessageSize = 8192
	defaultWSPingInterval   = 30
	defaultWSPongTimeout    = 10
)

// WSMessage is one frame in either direction.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// WSSubscribePayload lists event names, e.g. "term.created".
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
}

// wsRequest is the inbound shape of WSMessage.
type wsRequest struct {
	Type    string             `json:"type"`
	ID      string             `json:"id"`
	Payload WSSubscribePayload `json:"payload"`
}

func newWSMessage(typ, id, event string, payload any) WSMessage {
	return WSMessage{
		Type:      typ,
		ID:        id,
		EventType: event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
}

// Hub fans term events out to subscribed WebSocket clients.
type Hub struct {
	cfg    config.WebSocketConfig
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

// WSClient is one /ws connection and the event names it listens to.
type WSClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu            sync.RWMutex
	subscriptions map[string]struct{}
}

// Origins are enforced by the CORS middleware in front of /ws.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// NewHub returns a hub with zero config fields replaced by defaults.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaultWSMaxMessageSize
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultWSPingInterval
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = defaultWSPongTimeout
	}
	return &Hub{cfg: cfg, logger: logger, clients: make(map[*WSClient]struct{})}
}

func (h *Hub) pingInterval() time.Duration { return time.Duration(h.cfg.PingInterval) * time.Second }
func (h *Hub) pongTimeout() time.Duration  { return time.Duration(h.cfg.PongTimeout) * time.Second }

// Run waits for ctx to end, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		if c.conn != nil {
			c.conn.Close()
		}
	}
}

// Register adds c to the hub.
func (h *Hub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

// Unregister removes c. It is safe to call more than once; the send channel
// is closed only by the call that removed the client.
func (h *Hub) Unregister(c *WSClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		close(c.send)
		h.logger.Debug("websocket client disconnected", "clients", n)
	}
}

// Broadcast pushes an event frame to every client subscribed to event.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := json.Marshal(newWSMessage(WSTypeEvent, "", event, payload))
	if err != nil {
		h.logger.Error("failed to marshal websocket event", "event", event, "error", err)
		return
	}

	// Snapshot first so the hub lock and a client lock are never held together.
	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if c.subscribed(event) {
			c.enqueue(data)
			sent++
		}
	}
	if sent > 0 {
		h.logger.Debug("websocket event sent", "event", event, "recipients", sent)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handleWebSocket upgrades the request and starts the client's pumps.
// A new client receives nothing until it subscribes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &WSClient{
		hub:           s.hub,
		conn:          conn,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	s.hub.Register(c)

	go c.writeLoop()
	go c.readLoop()
}

// readLoop handles client frames until the connection fails or goes quiet
// for longer than one ping interval plus the pong timeout.
func (c *WSClient) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	idle := c.hub.pingInterval() + c.hub.pongTimeout()
	extend := func() error { return c.conn.SetReadDeadline(time.Now().Add(idle)) }

	c.conn.SetReadLimit(int64(c.hub.cfg.MaxMessageSize))
	extend() //nolint:errcheck // A failed deadline surfaces as a read error
	c.conn.SetPongHandler(func(string) error { return extend() })

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		extend() //nolint:errcheck // A failed deadline surfaces as a read error
		c.dispatch(data)
	}
}

// writeLoop drains the send queue and keeps the connection alive with pings.
// It exits when the hub closes the queue or a write fails.
func (c *WSClient) writeLoop() {
	ping := time.NewTicker(c.hub.pingInterval())
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		//nolint:errcheck // A failed deadline surfaces as a write error
		c.conn.SetWriteDeadline(time.Now().Add(c.hub.pongTimeout()))
		return c.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				write(websocket.CloseMessage, nil) //nolint:errcheck // Closing anyway
				return
			}
			if err := write(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch answers one client frame.
func (c *WSClient) dispatch(data []byte) {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.reply(WSTypeError, "", map[string]string{"message": "invalid message"})
		return
	}

	switch req.Type {
	case WSTypeSubscribe:
		c.setSubscribed(req.Payload.Channels, true)
		c.reply(WSTypeResponse, req.ID, map[string]any{"subscribed": req.Payload.Channels})
	case WSTypeUnsubscribe:
		c.setSubscribed(req.Payload.Channels, false)
		c.reply(WSTypeResponse, req.ID, map[string]any{"unsubscribed": req.Payload.Channels})
	case WSTypePing:
		c.reply(WSTypePong, req.ID, nil)
	default:
		c.reply(WSTypeError, req.ID, map[string]string{"message": "unknown message type: " + req.Type})
	}
}

// setSubscribed adds or removes event names. Unknown names are kept; they
// never fire.
func (c *WSClient) setSubscribed(events []string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range events {
		if on {
			c.subscriptions[e] = struct{}{}
		} else {
			delete(c.subscriptions, e)
		}
	}
}

func (c *WSClient) subscribed(event string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscriptions[event]
	return ok
}

func (c *WSClient) reply(typ, id string, payload any) {
	data, err := json.Marshal(newWSMessage(typ, id, "", payload))
	if err != nil {
		return
	}
	c.enqueue(data)
}

// enqueue queues data without blocking. A full queue drops the frame; a
// queue closed by a concurrent Unregister is ignored.
func (c *WSClient) enqueue(data []byte) {
	defer func() { recover() }() //nolint:errcheck // send on closed channel

	select {
	case c.send <- data:
	default:
	}
}
