package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/domain/repository"
	"bartertrade/internal/infrastructure/classifier"
	"bartertrade/internal/infrastructure/storage"
	"bartertrade/internal/infrastructure/vector"
	"bartertrade/pkg/errors"
)

// Fakes for the external collaborators behind the usecase interfaces.

type fakeUploader struct {
	mu      sync.Mutex
	uploads int
	failAll bool
}

func (u *fakeUploader) UploadImage(_ context.Context, _ []byte, folder, ownerID string, index int) (*storage.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failAll {
		return nil, fmt.Errorf("bucket unavailable")
	}
	u.uploads++
	return &storage.UploadResult{
		URL:    fmt.Sprintf("https://storage.example.com/%s/%s_%d.jpg", folder, ownerID, index),
		Format: "jpeg",
		Width:  640,
		Height: 480,
	}, nil
}

type fakeInference struct {
	labels       []classifier.Label
	classifyErr  error
	embedErr     error
	lastEmbedded string
}

func (f *fakeInference) Classify(_ context.Context, _ []byte) ([]classifier.Label, error) {
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	return f.labels, nil
}

func (f *fakeInference) Embed(_ context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	f.lastEmbedded = text
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeVectorIndex struct {
	mu      sync.Mutex
	vectors map[string]map[string]interface{}
	matches []vector.Match
}

func newFakeVectorIndex() *fakeVectorIndex {
	return &fakeVectorIndex{vectors: make(map[string]map[string]interface{})}
}

func (f *fakeVectorIndex) Upsert(_ context.Context, id string, _ []float32, metadata map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vectors[id] = metadata
	return nil
}

func (f *fakeVectorIndex) Query(_ context.Context, _ []float32, topK int) ([]vector.Match, error) {
	if topK < len(f.matches) {
		return f.matches[:topK], nil
	}
	return f.matches, nil
}

type fakeDonationRepo struct {
	mu        sync.Mutex
	donations map[string]*entity.Donation
}

func newFakeDonationRepo(donations ...*entity.Donation) *fakeDonationRepo {
	r := &fakeDonationRepo{donations: make(map[string]*entity.Donation)}
	for _, d := range donations {
		r.donations[d.ID] = d
	}
	return r
}

func (r *fakeDonationRepo) Create(_ context.Context, donation *entity.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if donation.ID == "" {
		donation.ID = fmt.Sprintf("don-%d", len(r.donations)+1)
	}
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = donation.CreatedAt
	r.donations[donation.ID] = donation
	return nil
}

func (r *fakeDonationRepo) GetByID(_ context.Context, id string) (*entity.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	donation, ok := r.donations[id]
	if !ok {
		return nil, errors.NotFound("Donation", nil)
	}
	return donation, nil
}

func (r *fakeDonationRepo) List(_ context.Context, filter repository.DonationFilter, limit, offset int) ([]*entity.Donation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Donation
	for _, d := range r.donations {
		if filter.AvailableOnly && !d.Available {
			continue
		}
		if filter.Category != "" && !containsCategory(d.Categories, filter.Category) {
			continue
		}
		out = append(out, d)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeDonationRepo) Update(_ context.Context, donation *entity.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.donations[donation.ID]; !ok {
		return errors.NotFound("Donation", nil)
	}
	donation.UpdatedAt = time.Now()
	r.donations[donation.ID] = donation
	return nil
}

func (r *fakeDonationRepo) ListWithLocation(_ context.Context) ([]*entity.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Donation
	for _, d := range r.donations {
		if d.Available && d.Location != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

func containsCategory(categories []string, want string) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}
