package usecase

import (
	"context"

	"bartertrade/internal/infrastructure/classifier"
	"bartertrade/internal/infrastructure/storage"
	"bartertrade/internal/infrastructure/vector"
)

type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte, folder, ownerID string, index int) (*storage.UploadResult, error)
}

type InferenceClient interface {
	Classify(ctx context.Context, imageData []byte) ([]classifier.Label, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorIndex interface {
	Upsert(ctx context.Context, id string, values []float32, metadata map[string]interface{}) error
	Query(ctx context.Context, values []float32, topK int) ([]vector.Match, error)
}
