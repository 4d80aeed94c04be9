package notification

import (
	"sync"

	"github.com/google/uuid"

	"bartertrade/internal/infrastructure/observability"
	"bartertrade/pkg/logger"
)

// queueSize bounds each connection's pending-event queue. A consumer that
// falls this far behind starts losing events; the room list and unread
// endpoints remain the source of truth.
const queueSize = 32

type connection struct {
	userID string
	queue  chan Event
}

// Hub maps live subscriber connections to user identities. It is constructed
// once in main and injected wherever notifications are produced; handlers own
// the connection lifecycle, the hub only enqueues.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*connection
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*connection),
	}
}

// Register allocates a connection for userID and returns its id together
// with the queue the caller must drain. A user may hold several connections
// at once, one per open streaming session.
func (h *Hub) Register(userID string) (string, <-chan Event) {
	conn := &connection{
		userID: userID,
		queue:  make(chan Event, queueSize),
	}
	connID := uuid.New().String()

	h.mu.Lock()
	h.conns[connID] = conn
	h.mu.Unlock()

	logger.Debug("hub: registered connection %s for user %s", connID, userID)
	return connID, conn.queue
}

// Unregister removes the connection. Calling it for an unknown or already
// removed connection is a no-op.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	delete(h.conns, connID)
	h.mu.Unlock()
}

// Notify enqueues event onto every live connection of userID. Users without
// connections receive nothing; a full queue drops the event for that
// connection. Neither case is an error.
func (h *Hub) Notify(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	matched := false
	for _, conn := range h.conns {
		if conn.userID != userID {
			continue
		}
		matched = true
		select {
		case conn.queue <- event:
			observability.EventDelivered(event.Type)
		default:
			observability.EventDropped("queue_full")
		}
	}
	if !matched {
		observability.EventDropped("no_connection")
	}
}

// ConnectionCount reports live connections for userID.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conn := range h.conns {
		if conn.userID == userID {
			n++
		}
	}
	return n
}
