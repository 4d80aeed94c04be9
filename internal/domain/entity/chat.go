package entity

import "time"

// PartySnapshot is the buyer or seller as they looked when the room was
// created. Later profile edits do not propagate here.
type PartySnapshot struct {
	ID        string `json:"id" firestore:"id"`
	Name      string `json:"name" firestore:"name"`
	AvatarURL string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
}

// ProductSnapshot captures the product identity and first image at room
// creation time.
type ProductSnapshot struct {
	ID       string `json:"id" firestore:"id"`
	Name     string `json:"name" firestore:"name"`
	ImageURL string `json:"image_url,omitempty" firestore:"imageURL,omitempty"`
}

// ChatRoom is one conversation between a buyer and a seller about a product.
// At most one room exists per (product, buyer, seller) triple.
type ChatRoom struct {
	ID        string `json:"id" firestore:"id"`
	ProductID string `json:"product_id" firestore:"productId"`
	BuyerID   string `json:"buyer_id" firestore:"buyerId"`
	SellerID  string `json:"seller_id" firestore:"sellerId"`

	Product ProductSnapshot `json:"product" firestore:"product"`
	Buyer   PartySnapshot   `json:"buyer" firestore:"buyer"`
	Seller  PartySnapshot   `json:"seller" firestore:"seller"`

	LastMessage   string     `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" firestore:"lastMessageAt,omitempty"`
	BuyerReadAt   *time.Time `json:"buyer_read_at,omitempty" firestore:"buyerReadAt,omitempty"`
	SellerReadAt  *time.Time `json:"seller_read_at,omitempty" firestore:"sellerReadAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsParty reports whether userID is the room's buyer or seller.
func (r *ChatRoom) IsParty(userID string) bool {
	return userID == r.BuyerID || userID == r.SellerID
}

// Counterpart returns the other party of the room relative to userID. A
// sender that is the buyer gets the seller and vice versa.
func (r *ChatRoom) Counterpart(userID string) string {
	if userID == r.BuyerID {
		return r.SellerID
	}
	return r.BuyerID
}

// ReadAt returns the read timestamp belonging to userID, or nil when the
// user has never marked the room read or is not a party.
func (r *ChatRoom) ReadAt(userID string) *time.Time {
	switch userID {
	case r.BuyerID:
		return r.BuyerReadAt
	case r.SellerID:
		return r.SellerReadAt
	}
	return nil
}
