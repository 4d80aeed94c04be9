package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/domain/repository"
	"bartertrade/pkg/errors"
	"bartertrade/pkg/logger"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) CreateRoom(ctx context.Context, room *entity.ChatRoom) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	_, err := r.client.Collection("chatRooms").Doc(room.ID).Set(ctx, room)
	if err != nil {
		return errors.Internal("Failed to create chat room", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetRoomByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	doc, err := r.client.Collection("chatRooms").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat room", err)
		}
		return nil, errors.Internal("Failed to get chat room", err)
	}

	var room entity.ChatRoom
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse chat room data", err)
	}

	return &room, nil
}

func (r *firestoreChatRepository) GetRoomByParties(ctx context.Context, productID, buyerID, sellerID string) (*entity.ChatRoom, error) {
	query := r.client.Collection("chatRooms").
		Where("productId", "==", productID).
		Where("buyerId", "==", buyerID).
		Where("sellerId", "==", sellerID).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Chat room", nil)
		}
		return nil, errors.Internal("Failed to query chat room by parties", err)
	}

	var room entity.ChatRoom
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse chat room data", err)
	}

	return &room, nil
}

func (r *firestoreChatRepository) ListRoomsByUserID(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	// A user can appear as buyer or seller; Firestore has no OR filter across
	// fields in this client version, so run both queries and merge.
	var rooms []*entity.ChatRoom
	seen := make(map[string]bool)

	for _, field := range []string{"buyerId", "sellerId"} {
		iter := r.client.Collection("chatRooms").Where(field, "==", userID).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				logger.Error("Firestore error while listing rooms for user %s: %v", userID, err)
				return nil, errors.Internal("Failed to list chat rooms", err)
			}

			var room entity.ChatRoom
			if err := doc.DataTo(&room); err != nil {
				logger.Warn("Skipping malformed chat room %s: %v", doc.Ref.ID, err)
				continue
			}
			if seen[room.ID] {
				continue
			}
			seen[room.ID] = true
			rooms = append(rooms, &room)
		}
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].UpdatedAt.After(rooms[j].UpdatedAt)
	})

	return rooms, nil
}

func (r *firestoreChatRepository) RecordMessageSent(ctx context.Context, roomID, content string, at time.Time) error {
	_, err := r.client.Collection("chatRooms").Doc(roomID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: content},
		{Path: "lastMessageAt", Value: at},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat room", err)
		}
		return errors.Internal("Failed to record last message", err)
	}

	return nil
}

func (r *firestoreChatRepository) SetReadTimestamp(ctx context.Context, roomID, party string, at time.Time) error {
	var field string
	switch party {
	case "buyer":
		field = "buyerReadAt"
	case "seller":
		field = "sellerReadAt"
	default:
		return errors.BadRequest("Unknown room party", nil)
	}

	_, err := r.client.Collection("chatRooms").Doc(roomID).Update(ctx, []firestore.Update{
		{Path: field, Value: at},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat room", err)
		}
		return errors.Internal("Failed to set read timestamp", err)
	}

	return nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("chatRooms").Doc(message.RoomID).Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]*entity.Message, error) {
	query := r.client.Collection("chatRooms").Doc(roomID).Collection("messages").
		OrderBy("createdAt", firestore.Desc)
	if before != nil {
		query = query.Where("createdAt", "<", *before)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for room %s: %v", roomID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	// Selection walks backward in time; present each page forward in time.
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}

func (r *firestoreChatRepository) MarkMessagesRead(ctx context.Context, roomID, excludeSenderID string) error {
	iter := r.client.Collection("chatRooms").Doc(roomID).Collection("messages").
		Where("read", "==", false).
		Documents(ctx)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate unread messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message %s in room %s: %v", doc.Ref.ID, roomID, err)
			continue
		}
		if message.SenderID == excludeSenderID {
			continue
		}

		if _, err := doc.Ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
			return errors.Internal("Failed to mark message read", err)
		}
	}

	return nil
}

func (r *firestoreChatRepository) CountUnread(ctx context.Context, roomID, excludeSenderID string, after *time.Time) (int, error) {
	query := r.client.Collection("chatRooms").Doc(roomID).Collection("messages").Query
	if after != nil {
		query = query.Where("createdAt", ">", *after)
	}

	// Sender exclusion is filtered in memory; a != filter would force a
	// composite index for every room.
	iter := query.Documents(ctx)
	count := 0

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, errors.Internal("Failed to count unread messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		if message.SenderID != excludeSenderID {
			count++
		}
	}

	return count, nil
}
