package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bartertrade/internal/domain/entity"
	"bartertrade/pkg/errors"
)

func TestCreateDonationRequiresAnImage(t *testing.T) {
	uc := NewDonationUseCase(newFakeDonationRepo(), &fakeUploader{})

	_, err := uc.CreateDonation(context.Background(), CreateDonationInput{
		Name:  "Winter coats",
		Donor: entity.DonorInfo{ID: "u1"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateDonationCapsImagesAndDefaultsCondition(t *testing.T) {
	uploader := &fakeUploader{}
	uc := NewDonationUseCase(newFakeDonationRepo(), uploader)

	donation, err := uc.CreateDonation(context.Background(), CreateDonationInput{
		Name:       "Box of books",
		Categories: `["books","education"]`,
		Donor:      entity.DonorInfo{ID: "u1", Name: "alice"},
		Images:     [][]byte{{1}, {2}, {3}, {4}, {5}},
	})
	require.NoError(t, err)

	assert.Equal(t, "good", donation.Condition)
	assert.True(t, donation.Available)
	assert.Equal(t, maxDonationImages, uploader.uploads)
	assert.Len(t, donation.Images, maxDonationImages)
	assert.Equal(t, []string{"books", "education"}, donation.Categories)
}

func TestCreateDonationSingleCategoryValue(t *testing.T) {
	uc := NewDonationUseCase(newFakeDonationRepo(), &fakeUploader{})

	donation, err := uc.CreateDonation(context.Background(), CreateDonationInput{
		Name:       "Desk",
		Categories: "furniture",
		Donor:      entity.DonorInfo{ID: "u1"},
		Images:     [][]byte{{1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"furniture"}, donation.Categories)
}

func TestCreateDonationUploadFailureIsTransient(t *testing.T) {
	repo := newFakeDonationRepo()
	uc := NewDonationUseCase(repo, &fakeUploader{failAll: true})

	_, err := uc.CreateDonation(context.Background(), CreateDonationInput{
		Name:   "Desk",
		Donor:  entity.DonorInfo{ID: "u1"},
		Images: [][]byte{{1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "SERVICE_UNAVAILABLE"))
	assert.Zero(t, len(repo.donations))
}

func TestClaimDonation(t *testing.T) {
	repo := newFakeDonationRepo(&entity.Donation{
		ID:        "d1",
		Name:      "Heater",
		Available: true,
		Donor:     entity.DonorInfo{ID: "u1"},
	})
	uc := NewDonationUseCase(repo, &fakeUploader{})

	claimer := entity.DonorInfo{ID: "u2", Name: "bob", Email: "bob@example.com"}
	donation, err := uc.ClaimDonation(context.Background(), "d1", claimer)
	require.NoError(t, err)

	assert.False(t, donation.Available)
	require.NotNil(t, donation.Claim)
	assert.Equal(t, "u2", donation.Claim.ClaimedBy.ID)
	assert.False(t, donation.Claim.ClaimedAt.IsZero())

	// A second claim conflicts and leaves the first claimer in place.
	_, err = uc.ClaimDonation(context.Background(), "d1", entity.DonorInfo{ID: "u3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))

	stored, err := repo.GetByID(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "u2", stored.Claim.ClaimedBy.ID)
}

func TestNearbyDonationsOrdersByDistance(t *testing.T) {
	center := func(lat, lng float64) *entity.GeoPoint { return entity.NewGeoPoint(lat, lng) }
	repo := newFakeDonationRepo(
		&entity.Donation{ID: "far", Available: true, Location: center(-6.30, 106.90)},
		&entity.Donation{ID: "near", Available: true, Location: center(-6.21, 106.85)},
		&entity.Donation{ID: "claimed", Available: false, Location: center(-6.21, 106.85)},
		&entity.Donation{ID: "nolocation", Available: true},
	)
	uc := NewDonationUseCase(repo, &fakeUploader{})

	donations, err := uc.NearbyDonations(context.Background(), -6.2088, 106.8456, 15, 10)
	require.NoError(t, err)

	require.Len(t, donations, 2)
	assert.Equal(t, "near", donations[0].ID)
	assert.Equal(t, "far", donations[1].ID)
}

func TestNearbyDonationsHonorsRadiusAndLimit(t *testing.T) {
	repo := newFakeDonationRepo(
		&entity.Donation{ID: "a", Available: true, Location: entity.NewGeoPoint(-6.2090, 106.8460)},
		&entity.Donation{ID: "b", Available: true, Location: entity.NewGeoPoint(-6.2100, 106.8470)},
		&entity.Donation{ID: "overseas", Available: true, Location: entity.NewGeoPoint(40.71, -74.00)},
	)
	uc := NewDonationUseCase(repo, &fakeUploader{})

	donations, err := uc.NearbyDonations(context.Background(), -6.2088, 106.8456, 5, 1)
	require.NoError(t, err)
	assert.Len(t, donations, 1)
}
