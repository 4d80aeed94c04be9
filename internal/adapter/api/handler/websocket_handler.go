package handler

import (
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"bartertrade/internal/infrastructure/notification"
	"bartertrade/internal/infrastructure/observability"
	"bartertrade/pkg/errors"
	"bartertrade/pkg/logger"
	"bartertrade/pkg/response"
)

type WebSocketHandler struct {
	hub               *notification.Hub
	heartbeatInterval time.Duration
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins once the web client domain is fixed
	},
}

func NewWebSocketHandler(hub *notification.Hub, heartbeatInterval time.Duration) *WebSocketHandler {
	return &WebSocketHandler{
		hub:               hub,
		heartbeatInterval: heartbeatInterval,
	}
}

// HandleConnection upgrades the request and streams the same event feed the
// SSE endpoint serves, as JSON text frames.
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return response.Error(c, errors.BadRequest("user_id is required", nil))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	connID, queue := h.hub.Register(userID)
	observability.StreamConnected("websocket")

	go h.writePump(conn, queue)
	go h.readPump(conn, connID, userID)

	return nil
}

func (h *WebSocketHandler) writePump(conn *gorillaws.Conn, queue <-chan notification.Event) {
	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	if err := conn.WriteJSON(notification.Connected()); err != nil {
		return
	}

	for {
		select {
		case event := <-queue:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := conn.WriteJSON(notification.Heartbeat()); err != nil {
				return
			}
		}
	}
}

// readPump owns connection teardown: when the peer goes away the read fails,
// the connection is unregistered and closed, and the write pump exits on its
// next write.
func (h *WebSocketHandler) readPump(conn *gorillaws.Conn, connID, userID string) {
	defer func() {
		h.hub.Unregister(connID)
		observability.StreamDisconnected("websocket")
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if gorillaws.IsUnexpectedCloseError(err, gorillaws.CloseGoingAway, gorillaws.CloseNormalClosure) {
				logger.Debug("websocket read error for user %s: %v", userID, err)
			}
			return
		}
	}
}
