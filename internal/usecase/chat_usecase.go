package usecase

import (
	"context"
	"time"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/domain/repository"
	"bartertrade/internal/infrastructure/notification"
	"bartertrade/pkg/errors"
	"bartertrade/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	hub         *notification.Hub
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	hub *notification.Hub,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		hub:         hub,
	}
}

type CreateRoomInput struct {
	ProductID string
	BuyerID   string
	SellerID  string
}

type SendMessageInput struct {
	RoomID   string
	SenderID string
	Content  string
}

// CreateOrGetRoom returns the room for the (product, buyer, seller) triple,
// creating it with denormalized snapshots on first contact. Creation is
// idempotent: a second call with the same triple returns the existing room.
func (uc *ChatUseCase) CreateOrGetRoom(ctx context.Context, input CreateRoomInput) (*entity.ChatRoom, error) {
	existing, err := uc.chatRepo.GetRoomByParties(ctx, input.ProductID, input.BuyerID, input.SellerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	buyer, err := uc.userRepo.GetByID(ctx, input.BuyerID)
	if err != nil {
		return nil, err
	}
	seller, err := uc.userRepo.GetByID(ctx, input.SellerID)
	if err != nil {
		return nil, err
	}

	firstImage := ""
	if len(product.Images) > 0 {
		firstImage = product.Images[0].URL
	}

	room := &entity.ChatRoom{
		ProductID: input.ProductID,
		BuyerID:   input.BuyerID,
		SellerID:  input.SellerID,
		Product: entity.ProductSnapshot{
			ID:       product.ID,
			Name:     product.Name,
			ImageURL: firstImage,
		},
		Buyer: entity.PartySnapshot{
			ID:        buyer.ID,
			Name:      buyer.Username,
			AvatarURL: buyer.AvatarURL,
		},
		Seller: entity.PartySnapshot{
			ID:        seller.ID,
			Name:      seller.Username,
			AvatarURL: seller.AvatarURL,
		},
	}

	if err := uc.chatRepo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// ListRooms returns the user's rooms, most recently updated first.
func (uc *ChatUseCase) ListRooms(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	return uc.chatRepo.ListRoomsByUserID(ctx, userID)
}

func (uc *ChatUseCase) GetRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error) {
	return uc.chatRepo.GetRoomByID(ctx, roomID)
}

// SendMessage persists the message, updates the room's last-message snapshot
// and then notifies the counterpart's live connections in the background.
// The caller's response never waits on delivery, and delivery failure never
// fails the send.
func (uc *ChatUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*entity.Message, error) {
	// Room existence is checked before the append so a bad room id cannot
	// leave an orphan message behind.
	room, err := uc.chatRepo.GetRoomByID(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		RoomID:    input.RoomID,
		SenderID:  input.SenderID,
		Content:   input.Content,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.chatRepo.RecordMessageSent(ctx, input.RoomID, input.Content, message.CreatedAt); err != nil {
		return nil, err
	}

	recipient := room.Counterpart(input.SenderID)
	go uc.hub.Notify(recipient, notification.NewMessage(input.RoomID, message))

	return message, nil
}

// ListMessages pages backward in time: the limit most recent messages older
// than before (when given), returned in ascending chronological order.
func (uc *ChatUseCase) ListMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]*entity.Message, error) {
	return uc.chatRepo.ListMessages(ctx, roomID, limit, before)
}

// MarkRead records the user's read timestamp on the room and flips the read
// flag on every counterpart message. Both steps are idempotent.
func (uc *ChatUseCase) MarkRead(ctx context.Context, roomID, userID string) error {
	room, err := uc.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return err
	}

	var party string
	switch userID {
	case room.BuyerID:
		party = "buyer"
	case room.SellerID:
		party = "seller"
	default:
		return errors.Forbidden("User is not a party to this room", nil)
	}

	if err := uc.chatRepo.SetReadTimestamp(ctx, roomID, party, time.Now()); err != nil {
		return err
	}

	return uc.chatRepo.MarkMessagesRead(ctx, roomID, userID)
}

// UnreadCountForRoom derives the user's unread count for one room. The room's
// timestamps short-circuit the message store query: no last message, or a
// read marker at least as new, means zero without touching storage.
func (uc *ChatUseCase) UnreadCountForRoom(ctx context.Context, room *entity.ChatRoom, userID string) (int, error) {
	if !room.IsParty(userID) {
		return 0, nil
	}

	if room.LastMessageAt == nil {
		return 0, nil
	}

	readAt := room.ReadAt(userID)
	if readAt != nil && !room.LastMessageAt.After(*readAt) {
		return 0, nil
	}

	return uc.chatRepo.CountUnread(ctx, room.ID, userID, readAt)
}

// TotalUnread sums unread counts across all of the user's rooms.
func (uc *ChatUseCase) TotalUnread(ctx context.Context, userID string) (int, error) {
	rooms, err := uc.chatRepo.ListRoomsByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, room := range rooms {
		count, err := uc.UnreadCountForRoom(ctx, room, userID)
		if err != nil {
			logger.Warn("Unread count failed for room %s: %v", room.ID, err)
			return 0, err
		}
		total += count
	}

	return total, nil
}
