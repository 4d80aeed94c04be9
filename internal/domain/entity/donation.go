package entity

import "time"

// DonorInfo is a snapshot of the donor captured when the donation is created.
type DonorInfo struct {
	ID        string `json:"id" firestore:"id"`
	Name      string `json:"name" firestore:"name"`
	Email     string `json:"email" firestore:"email"`
	AvatarURL string `json:"avatar,omitempty" firestore:"avatar,omitempty"`
}

type DonationClaim struct {
	ClaimedAt time.Time `json:"claimed_at" firestore:"claimedAt"`
	ClaimedBy DonorInfo `json:"claimed_by" firestore:"claimedBy"`
}

type Donation struct {
	ID           string         `json:"id" firestore:"id"`
	Name         string         `json:"name" firestore:"name"`
	Description  string         `json:"description" firestore:"description"`
	Categories   []string       `json:"categories" firestore:"categories"`
	Condition    string         `json:"condition" firestore:"condition"`
	Images       []string       `json:"images" firestore:"images"`
	ImageDetails []ProductImage `json:"image_details,omitempty" firestore:"imageDetails,omitempty"`
	Available    bool           `json:"is_available" firestore:"isAvailable"`
	Donor        DonorInfo      `json:"donor" firestore:"donor"`
	Location     *GeoPoint      `json:"location,omitempty" firestore:"location,omitempty"`
	Claim        *DonationClaim `json:"claim,omitempty" firestore:"claim,omitempty"`
	CreatedAt    time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time      `json:"updated_at" firestore:"updatedAt"`
}
