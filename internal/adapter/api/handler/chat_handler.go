package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"bartertrade/internal/infrastructure/notification"
	"bartertrade/internal/infrastructure/observability"
	"bartertrade/internal/usecase"
	"bartertrade/pkg/errors"
	"bartertrade/pkg/response"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
	hub         *notification.Hub

	// heartbeatInterval bounds how long a stream stays silent before a
	// keep-alive event is emitted.
	heartbeatInterval time.Duration
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, hub *notification.Hub, heartbeatInterval time.Duration) *ChatHandler {
	return &ChatHandler{
		chatUseCase:       chatUseCase,
		hub:               hub,
		heartbeatInterval: heartbeatInterval,
	}
}

type createRoomRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	BuyerID   string `json:"buyer_id" validate:"required"`
	SellerID  string `json:"seller_id" validate:"required"`
}

type sendMessageRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	SenderID string `json:"sender_id" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type markReadRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// CreateRoom returns the room for the (product, buyer, seller) triple,
// creating it on first contact.
func (h *ChatHandler) CreateRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	room, err := h.chatUseCase.CreateOrGetRoom(c.Request().Context(), usecase.CreateRoomInput{
		ProductID: req.ProductID,
		BuyerID:   req.BuyerID,
		SellerID:  req.SellerID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, room)
}

// ListRooms returns the rooms a user participates in, newest-updated first.
func (h *ChatHandler) ListRooms(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return response.Error(c, errors.BadRequest("user_id is required", nil))
	}

	rooms, err := h.chatUseCase.ListRooms(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rooms)
}

func (h *ChatHandler) GetRoom(c echo.Context) error {
	room, err := h.chatUseCase.GetRoom(c.Request().Context(), c.Param("room_id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, room)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		RoomID:   req.RoomID,
		SenderID: req.SenderID,
		Content:  req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// ListMessages pages backward through a room's history. The page itself is
// returned in ascending chronological order.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	roomID := c.Param("room_id")

	limit := defaultMessageLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	before := parseBefore(c.QueryParam("before"))

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), roomID, limit, before)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.MarkRead(c.Request().Context(), c.Param("room_id"), req.UserID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}

func (h *ChatHandler) UnreadCount(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return response.Error(c, errors.BadRequest("user_id is required", nil))
	}

	count, err := h.chatUseCase.TotalUnread(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"unread_count": count})
}

// StreamEvents serves the server-sent-events feed for one subscriber
// connection. The connection is registered with the hub for the lifetime of
// the request and unregistered on every exit path.
func (h *ChatHandler) StreamEvents(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return response.Error(c, errors.BadRequest("user_id is required", nil))
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	connID, queue := h.hub.Register(userID)
	defer h.hub.Unregister(connID)

	observability.StreamConnected("sse")
	defer observability.StreamDisconnected("sse")

	if err := writeSSEEvent(res, notification.Connected()); err != nil {
		return nil
	}

	heartbeat := time.NewTimer(h.heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-queue:
			if err := writeSSEEvent(res, event); err != nil {
				return nil
			}
			if !heartbeat.Stop() {
				select {
				case <-heartbeat.C:
				default:
				}
			}
			heartbeat.Reset(h.heartbeatInterval)
		case <-heartbeat.C:
			if err := writeSSEEvent(res, notification.Heartbeat()); err != nil {
				return nil
			}
			heartbeat.Reset(h.heartbeatInterval)
		}
	}
}

func writeSSEEvent(res *echo.Response, event notification.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
		return err
	}
	res.Flush()
	return nil
}

// parseBefore is deliberately lenient: an unparsable timestamp means "no
// filter", not a client error.
func parseBefore(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
