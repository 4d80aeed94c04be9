package entity

import "time"

type ProductImage struct {
	URL    string `json:"url" firestore:"url"`
	Format string `json:"format,omitempty" firestore:"format,omitempty"`
	Width  int    `json:"width,omitempty" firestore:"width,omitempty"`
	Height int    `json:"height,omitempty" firestore:"height,omitempty"`
}

// ImageLabel is one classifier prediction for an uploaded product image.
type ImageLabel struct {
	Label string  `json:"label" firestore:"label"`
	Score float64 `json:"score" firestore:"score"`
}

type Product struct {
	ID          string         `json:"id" firestore:"id"`
	SellerID    string         `json:"seller_id" firestore:"sellerId"`
	Name        string         `json:"name" firestore:"name"`
	Description string         `json:"description" firestore:"description"`
	Price       string         `json:"price" firestore:"price"`
	Categories  []string       `json:"categories" firestore:"categories"`
	Images      []ProductImage `json:"images" firestore:"images"`
	ImageLabels []ImageLabel   `json:"image_labels,omitempty" firestore:"imageLabels,omitempty"`
	Location    *GeoPoint      `json:"location,omitempty" firestore:"location,omitempty"`
	Available   bool           `json:"is_available" firestore:"isAvailable"`
	CreatedAt   time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// GeoPoint mirrors the GeoJSON point layout: coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" firestore:"type"`
	Coordinates []float64 `json:"coordinates" firestore:"coordinates"`
}

func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

func (p *GeoPoint) Lat() float64 {
	if p == nil || len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p *GeoPoint) Lng() float64 {
	if p == nil || len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[0]
}
