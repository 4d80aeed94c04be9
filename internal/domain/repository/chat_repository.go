package repository

import (
	"context"
	"time"

	"bartertrade/internal/domain/entity"
)

// ChatRepository is the room registry and message store. Messages live in a
// per-room subcollection ordered by creation time.
type ChatRepository interface {
	CreateRoom(ctx context.Context, room *entity.ChatRoom) error
	GetRoomByID(ctx context.Context, id string) (*entity.ChatRoom, error)
	// GetRoomByParties returns the room for the (product, buyer, seller)
	// triple, or a NOT_FOUND error when none exists.
	GetRoomByParties(ctx context.Context, productID, buyerID, sellerID string) (*entity.ChatRoom, error)
	// ListRoomsByUserID returns rooms where the user is buyer or seller,
	// most recently updated first.
	ListRoomsByUserID(ctx context.Context, userID string) ([]*entity.ChatRoom, error)
	// RecordMessageSent stores the room's last-message snapshot and bumps
	// its updated-at timestamp.
	RecordMessageSent(ctx context.Context, roomID, content string, at time.Time) error
	// SetReadTimestamp writes the buyer or seller read marker. party must be
	// "buyer" or "seller".
	SetReadTimestamp(ctx context.Context, roomID, party string, at time.Time) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns up to limit messages of the room, newest first
	// selection, resorted ascending by creation time. A non-nil before
	// restricts the selection to messages created strictly earlier.
	ListMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]*entity.Message, error)
	// MarkMessagesRead flips read=false to true on every message of the room
	// not sent by excludeSenderID. Idempotent.
	MarkMessagesRead(ctx context.Context, roomID, excludeSenderID string) error
	// CountUnread counts messages of the room not sent by excludeSenderID,
	// restricted to createdAt strictly after the bound when non-nil.
	CountUnread(ctx context.Context, roomID, excludeSenderID string, after *time.Time) (int, error)
}
