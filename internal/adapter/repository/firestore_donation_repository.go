package repository

import (
	"context"
	"strings"
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

type firestoreDonationRepository struct {
	client *firestore.Client
}

func NewFirestoreDonationRepository(client *firestore.Client) repository.DonationRepository {
	return &firestoreDonationRepository{
		client: client,
	}
}

func (r *firestoreDonationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	if donation.ID == "" {
		donation.ID = uuid.New().String()
	}

	now := time.Now()
	donation.CreatedAt = now
	donation.UpdatedAt = now

	_, err := r.client.Collection("donations").Doc(donation.ID).Set(ctx, donation)
	if err != nil {
		return errors.Internal("Failed to create donation", err)
	}

	return nil
}

func (r *firestoreDonationRepository) GetByID(ctx context.Context, id string) (*entity.Donation, error) {
	doc, err := r.client.Collection("donations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Donation", err)
		}
		return nil, errors.Internal("Failed to get donation", err)
	}

	var donation entity.Donation
	if err := doc.DataTo(&donation); err != nil {
		return nil, errors.Internal("Failed to parse donation data", err)
	}

	return &donation, nil
}

func (r *firestoreDonationRepository) List(ctx context.Context, filter repository.DonationFilter, limit, offset int) ([]*entity.Donation, int64, error) {
	query := r.client.Collection("donations").Query

	if filter.AvailableOnly {
		query = query.Where("isAvailable", "==", true)
	}
	if filter.Category != "" && !strings.EqualFold(filter.Category, "all") {
		query = query.Where("categories", "array-contains", filter.Category)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count donations", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var donations []*entity.Donation

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate donations", err)
		}
		var donation entity.Donation
		if err := doc.DataTo(&donation); err != nil {
			logger.Warn("Skipping malformed donation %s: %v", doc.Ref.ID, err)
			continue
		}
		donations = append(donations, &donation)
	}

	return donations, total, nil
}

func (r *firestoreDonationRepository) Update(ctx context.Context, donation *entity.Donation) error {
	donation.UpdatedAt = time.Now()

	_, err := r.client.Collection("donations").Doc(donation.ID).Set(ctx, donation)
	if err != nil {
		return errors.Internal("Failed to update donation", err)
	}

	return nil
}

func (r *firestoreDonationRepository) ListWithLocation(ctx context.Context) ([]*entity.Donation, error) {
	docs, err := r.client.Collection("donations").
		Where("isAvailable", "==", true).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list donations with location", err)
	}

	var donations []*entity.Donation
	for _, doc := range docs {
		var donation entity.Donation
		if err := doc.DataTo(&donation); err != nil {
			continue
		}
		if donation.Location == nil || len(donation.Location.Coordinates) != 2 {
			continue
		}
		donations = append(donations, &donation)
	}

	return donations, nil
}
