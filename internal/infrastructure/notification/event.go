package notification

import "bartertrade/internal/domain/entity"

const (
	EventConnected  = "connected"
	EventHeartbeat  = "heartbeat"
	EventNewMessage = "new_message"
)

// Event is a tagged payload pushed to subscriber connections. It only lives
// in a connection queue between enqueue and delivery.
type Event struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"room_id,omitempty"`
	Message *entity.Message `json:"message,omitempty"`
}

func Connected() Event {
	return Event{Type: EventConnected}
}

func Heartbeat() Event {
	return Event{Type: EventHeartbeat}
}

func NewMessage(roomID string, message *entity.Message) Event {
	return Event{Type: EventNewMessage, RoomID: roomID, Message: message}
}
