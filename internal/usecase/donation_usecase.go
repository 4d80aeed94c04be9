package usecase

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/domain/repository"
	"bartertrade/pkg/errors"
)

const maxDonationImages = 3

type DonationUseCase struct {
	donationRepo repository.DonationRepository
	storage      ImageUploader
}

func NewDonationUseCase(donationRepo repository.DonationRepository, storageClient ImageUploader) *DonationUseCase {
	return &DonationUseCase{
		donationRepo: donationRepo,
		storage:      storageClient,
	}
}

type CreateDonationInput struct {
	Name        string
	Description string
	Categories  string // JSON array or a single plain value
	Condition   string
	Donor       entity.DonorInfo
	Images      [][]byte
	Latitude    *float64
	Longitude   *float64
}

func (uc *DonationUseCase) CreateDonation(ctx context.Context, input CreateDonationInput) (*entity.Donation, error) {
	if len(input.Images) == 0 {
		return nil, errors.BadRequest("At least one image is required", nil)
	}
	if len(input.Images) > maxDonationImages {
		input.Images = input.Images[:maxDonationImages]
	}

	condition := input.Condition
	if condition == "" {
		condition = "good"
	}

	donation := &entity.Donation{
		Name:        input.Name,
		Description: input.Description,
		Categories:  parseCategories(input.Categories),
		Condition:   condition,
		Available:   true,
		Donor:       input.Donor,
	}
	if input.Latitude != nil && input.Longitude != nil {
		donation.Location = entity.NewGeoPoint(*input.Latitude, *input.Longitude)
	}

	for i, data := range input.Images {
		result, err := uc.storage.UploadImage(ctx, data, "donations", input.Donor.ID, i+1)
		if err != nil {
			return nil, errors.ServiceUnavailable("Image upload failed", err)
		}
		donation.Images = append(donation.Images, result.URL)
		donation.ImageDetails = append(donation.ImageDetails, entity.ProductImage{
			URL:    result.URL,
			Format: result.Format,
			Width:  result.Width,
			Height: result.Height,
		})
	}

	if err := uc.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	return donation, nil
}

func (uc *DonationUseCase) GetDonation(ctx context.Context, id string) (*entity.Donation, error) {
	return uc.donationRepo.GetByID(ctx, id)
}

func (uc *DonationUseCase) ListDonations(ctx context.Context, filter repository.DonationFilter, limit, offset int) ([]*entity.Donation, int64, error) {
	return uc.donationRepo.List(ctx, filter, limit, offset)
}

// ClaimDonation marks the donation unavailable and records the claimer
// snapshot. An already-claimed donation yields a conflict.
func (uc *DonationUseCase) ClaimDonation(ctx context.Context, donationID string, claimer entity.DonorInfo) (*entity.Donation, error) {
	donation, err := uc.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}

	if !donation.Available {
		return nil, errors.Conflict("This donation has already been claimed")
	}

	donation.Available = false
	donation.Claim = &entity.DonationClaim{
		ClaimedAt: time.Now(),
		ClaimedBy: claimer,
	}

	if err := uc.donationRepo.Update(ctx, donation); err != nil {
		return nil, err
	}

	return donation, nil
}

// NearbyDonations returns available donations within radiusKm of the point,
// closest first.
func (uc *DonationUseCase) NearbyDonations(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*entity.Donation, error) {
	donations, err := uc.donationRepo.ListWithLocation(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		donation *entity.Donation
		distance float64
	}
	var within []scored
	for _, d := range donations {
		dist := haversineKm(lat, lng, d.Location.Lat(), d.Location.Lng())
		if dist <= radiusKm {
			within = append(within, scored{d, dist})
		}
	}

	sort.Slice(within, func(i, j int) bool {
		return within[i].distance < within[j].distance
	})

	var out []*entity.Donation
	for _, s := range within {
		out = append(out, s.donation)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// parseCategories accepts either a JSON array of strings or a single plain
// value, matching the lenient form handling of the upload endpoint.
func parseCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return []string{raw}
	}
	return parsed
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
