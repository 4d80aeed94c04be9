package repository

import (
	"context"

	"bartertrade/internal/domain/entity"
)

// ProductFilter narrows List results. Zero values mean "no restriction".
type ProductFilter struct {
	Category      string
	SellerID      string
	AvailableOnly bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	// Search matches query as a case-insensitive substring of name or
	// description.
	Search(ctx context.Context, query string, limit, offset int) ([]*entity.Product, int64, error)
}
