package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/domain/repository"
	"bartertrade/pkg/errors"
)

// In-memory repository fakes shared by the usecase tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = fmt.Sprintf("prod-%d", len(r.products)+1)
	}
	product.CreatedAt = time.Now()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return product, nil
}

func (r *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		if filter.AvailableOnly && !p.Available {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Search(_ context.Context, query string, limit, offset int) ([]*entity.Product, int64, error) {
	return nil, 0, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	rooms    map[string]*entity.ChatRoom
	messages map[string][]*entity.Message
	nextID   int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		rooms:    make(map[string]*entity.ChatRoom),
		messages: make(map[string][]*entity.Message),
	}
}

func (r *fakeChatRepo) CreateRoom(_ context.Context, room *entity.ChatRoom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room.ID == "" {
		r.nextID++
		room.ID = fmt.Sprintf("room-%d", r.nextID)
	}
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	r.rooms[room.ID] = room
	return nil
}

func (r *fakeChatRepo) GetRoomByID(_ context.Context, id string) (*entity.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	copied := *room
	return &copied, nil
}

func (r *fakeChatRepo) GetRoomByParties(_ context.Context, productID, buyerID, sellerID string) (*entity.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.ProductID == productID && room.BuyerID == buyerID && room.SellerID == sellerID {
			copied := *room
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Chat room", nil)
}

func (r *fakeChatRepo) ListRoomsByUserID(_ context.Context, userID string) ([]*entity.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rooms []*entity.ChatRoom
	for _, room := range r.rooms {
		if room.BuyerID == userID || room.SellerID == userID {
			copied := *room
			rooms = append(rooms, &copied)
		}
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].UpdatedAt.After(rooms[j].UpdatedAt)
	})
	return rooms, nil
}

func (r *fakeChatRepo) RecordMessageSent(_ context.Context, roomID, content string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return errors.NotFound("Chat room", nil)
	}
	room.LastMessage = content
	room.LastMessageAt = &at
	room.UpdatedAt = at
	return nil
}

func (r *fakeChatRepo) SetReadTimestamp(_ context.Context, roomID, party string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return errors.NotFound("Chat room", nil)
	}
	switch party {
	case "buyer":
		room.BuyerReadAt = &at
	case "seller":
		room.SellerReadAt = &at
	default:
		return errors.BadRequest("Unknown room party", nil)
	}
	room.UpdatedAt = at
	return nil
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		r.nextID++
		message.ID = fmt.Sprintf("msg-%d", r.nextID)
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages[message.RoomID] = append(r.messages[message.RoomID], message)
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, roomID string, limit int, before *time.Time) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var selected []*entity.Message
	for _, m := range r.messages[roomID] {
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		copied := *m
		selected = append(selected, &copied)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].CreatedAt.Before(selected[j].CreatedAt)
	})
	if limit > 0 && len(selected) > limit {
		selected = selected[len(selected)-limit:]
	}
	return selected, nil
}

func (r *fakeChatRepo) MarkMessagesRead(_ context.Context, roomID, excludeSenderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages[roomID] {
		if m.SenderID != excludeSenderID {
			m.Read = true
		}
	}
	return nil
}

func (r *fakeChatRepo) CountUnread(_ context.Context, roomID, excludeSenderID string, after *time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.messages[roomID] {
		if m.SenderID == excludeSenderID {
			continue
		}
		if after != nil && !m.CreatedAt.After(*after) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeChatRepo) roomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

func (r *fakeChatRepo) messageCount(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[roomID])
}
