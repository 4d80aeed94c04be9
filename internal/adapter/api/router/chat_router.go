package router

import (
	"github.com/labstack/echo/v4"

	"bartertrade/internal/adapter/api/handler"
)

// SetupChatRouter wires the chat REST endpoints plus both live transports:
// the SSE event stream and the WebSocket feed.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, wsHandler *handler.WebSocketHandler) {
	chat := e.Group("/chat")

	chat.POST("/rooms", chatHandler.CreateRoom)
	chat.GET("/rooms", chatHandler.ListRooms)
	chat.GET("/rooms/:room_id", chatHandler.GetRoom)

	chat.POST("/messages", chatHandler.SendMessage)
	chat.GET("/messages/:room_id", chatHandler.ListMessages)

	chat.POST("/read/:room_id", chatHandler.MarkRead)
	chat.GET("/unread", chatHandler.UnreadCount)

	chat.GET("/events", chatHandler.StreamEvents)
	chat.GET("/ws", wsHandler.HandleConnection)
}
