package handlers

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/arnold/goalsetter/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types sent over WebSocket
const (
	EventGoalsSnapshot = "goals_snapshot"
	EventGoalsUpdated  = "goals_updated"
	EventToastsUpdated = "notifications_updated"
)

const (
	DefaultSendBuffer   = 32
	DefaultWriteTimeout = 10 * time.Second
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// connection queues outbound frames for its writer goroutine. Broadcasts
// never touch the network, so a client that stops reading only loses its own
// connection.
type connection struct {
	id   uuid.UUID
	conn *websocket.Conn
	out  chan []byte

	mu     sync.Mutex
	closed bool
}

// enqueue reports false when the connection is closed or its queue is full.
func (c *connection) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.out <- msg:
		return true
	default:
		return false
	}
}

// close stops the writer and unblocks the reader. It reports whether this
// call did the closing.
func (c *connection) close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	close(c.out)
	c.conn.Close()
	return true
}

type HubOption func(*Hub)

// WithSendBuffer sets how many frames may wait for a slow client before it
// is dropped.
func WithSendBuffer(n int) HubOption {
	return func(h *Hub) { h.sendBuffer = max(n, 1) }
}

// WithWriteTimeout bounds a single frame write.
func WithWriteTimeout(d time.Duration) HubOption {
	return func(h *Hub) { h.writeTimeout = d }
}

// Hub fans goal and notification changes out to every connected client
type Hub struct {
	mu    sync.RWMutex
	conns map[*connection]bool
	log   *zap.SugaredLogger

	sendBuffer   int
	writeTimeout time.Duration
}

func NewHub(log *zap.SugaredLogger, opts ...HubOption) *Hub {
	h := &Hub{
		conns:        make(map[*connection]bool),
		log:          log,
		sendBuffer:   DefaultSendBuffer,
		writeTimeout: DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) newConnection(c *websocket.Conn) *connection {
	return &connection{id: uuid.New(), conn: c, out: make(chan []byte, h.sendBuffer)}
}

func (h *Hub) register(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
	h.log.Debugw("WS register", "connId", conn.id, "total", len(h.conns))
}

func (h *Hub) unregister(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.conns[conn] {
		return
	}
	delete(h.conns, conn)
	h.log.Debugw("WS unregister", "connId", conn.id, "remaining", len(h.conns))
}

// drop removes a connection and closes it.
func (h *Hub) drop(conn *connection, reason string) {
	h.unregister(conn)
	if conn.close() {
		h.log.Warnw("WS connection dropped", "connId", conn.id, "reason", reason)
	}
}

// Len reports the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast queues an event for all connections. Clients whose queue is full
// are dropped.
func (h *Hub) Broadcast(event WSEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Errorw("WS broadcast marshal error", "type", event.Type, "error", err)
		return
	}

	var slow []*connection
	h.mu.RLock()
	for c := range h.conns {
		if !c.enqueue(msg) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.drop(c, "send buffer full")
	}
}

// GoalsChanged is a GoalStore subscriber.
func (h *Hub) GoalsChanged(goals []models.Goal) {
	h.Broadcast(WSEvent{Type: EventGoalsUpdated, Data: goals})
}

// ToastsChanged is a ToastService subscriber.
func (h *Hub) ToastsChanged(toasts []models.Toast) {
	h.Broadcast(WSEvent{Type: EventToastsUpdated, Data: toasts})
}

// writePump is the only writer for conn. It exits once the queue is closed,
// or after dropping conn on a failed or timed out write.
func (h *Hub) writePump(conn *connection, done chan struct{}) {
	defer close(done)
	for msg := range conn.out {
		if err := conn.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			h.drop(conn, err.Error())
			return
		}
		if err := conn.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(conn, err.Error())
			return
		}
	}
}

// WebSocketUpgrade rejects plain HTTP requests on the websocket route
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}

// HandleWebSocket sends the client the current collection, then every
// change after it, until the client goes away.
func (h *Handler) HandleWebSocket(c *websocket.Conn) {
	conn := h.hub.newConnection(c)
	written := make(chan struct{})
	go h.hub.writePump(conn, written)

	// registering inside View means no commit lands between the snapshot
	// and the first update
	registered := false
	h.store.View(func(goals []models.Goal) {
		snapshot, err := json.Marshal(WSEvent{Type: EventGoalsSnapshot, Data: goals})
		if err != nil {
			h.log.Errorw("WS snapshot marshal error", "error", err)
			return
		}
		if conn.enqueue(snapshot) {
			h.hub.register(conn)
			registered = true
		}
	})
	if !registered {
		conn.close()
		<-written
		return
	}

	// Keep connection alive; read messages (client sends pings/keepalives)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.unregister(conn)
	conn.close()
	<-written
}
