package repository

import (
	"context"

	"bartertrade/internal/domain/entity"
)

type DonationFilter struct {
	Category      string
	AvailableOnly bool
}

type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	GetByID(ctx context.Context, id string) (*entity.Donation, error)
	List(ctx context.Context, filter DonationFilter, limit, offset int) ([]*entity.Donation, int64, error)
	Update(ctx context.Context, donation *entity.Donation) error
	// ListWithLocation returns available donations that carry a location
	// point, for nearest-neighbor filtering by the caller.
	ListWithLocation(ctx context.Context) ([]*entity.Donation, error)
}
