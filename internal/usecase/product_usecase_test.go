package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/infrastructure/classifier"
	"bartertrade/internal/infrastructure/vector"
	"bartertrade/pkg/errors"
)

func newProductUseCaseForTest(inference *fakeInference, index *fakeVectorIndex) (*ProductUseCase, *fakeProductRepo, *fakeUploader) {
	productRepo := newFakeProductRepo()
	userRepo := newFakeUserRepo(&entity.User{ID: "u2", Username: "bob"})
	uploader := &fakeUploader{}
	uc := NewProductUseCase(productRepo, userRepo, uploader, index, inference)
	return uc, productRepo, uploader
}

func TestCreateProductUploadsClassifiesAndIndexes(t *testing.T) {
	inference := &fakeInference{labels: []classifier.Label{{Label: "tent", Score: 0.92}}}
	index := newFakeVectorIndex()
	uc, _, uploader := newProductUseCaseForTest(inference, index)

	product, err := uc.CreateProduct(context.Background(), CreateProductInput{
		SellerID:    "u2",
		Name:        "Camping tent",
		Description: "Two person tent",
		Price:       "45",
		Categories:  []string{"outdoor"},
		Images:      [][]byte{{0xFF, 0xD8}, {0xFF, 0xD8}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.True(t, product.Available)
	assert.Equal(t, 2, uploader.uploads)
	require.Len(t, product.Images, 2)
	assert.Contains(t, product.Images[0].URL, "products/u2_1")

	require.Len(t, product.ImageLabels, 1)
	assert.Equal(t, "tent", product.ImageLabels[0].Label)

	// Embedding input is the combined listing text.
	assert.Equal(t, "Camping tent Two person tent 45", inference.lastEmbedded)
	metadata, ok := index.vectors[product.ID]
	require.True(t, ok)
	assert.Equal(t, "Camping tent", metadata["productName"])
}

func TestCreateProductSurvivesClassifierOutage(t *testing.T) {
	inference := &fakeInference{classifyErr: fmt.Errorf("model loading")}
	uc, repo, _ := newProductUseCaseForTest(inference, newFakeVectorIndex())

	product, err := uc.CreateProduct(context.Background(), CreateProductInput{
		SellerID: "u2",
		Name:     "Old chair",
		Images:   [][]byte{{0x01}},
	})
	require.NoError(t, err)
	assert.Empty(t, product.ImageLabels)

	stored, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old chair", stored.Name)
}

func TestCreateProductSurvivesIndexingOutage(t *testing.T) {
	inference := &fakeInference{embedErr: fmt.Errorf("rate limited")}
	index := newFakeVectorIndex()
	uc, repo, _ := newProductUseCaseForTest(inference, index)

	product, err := uc.CreateProduct(context.Background(), CreateProductInput{
		SellerID: "u2",
		Name:     "Bike",
		Images:   [][]byte{{0x01}},
	})
	require.NoError(t, err)
	assert.Empty(t, index.vectors)

	_, err = repo.GetByID(context.Background(), product.ID)
	assert.NoError(t, err)
}

func TestCreateProductUnknownSeller(t *testing.T) {
	uc, repo, _ := newProductUseCaseForTest(&fakeInference{}, newFakeVectorIndex())

	_, err := uc.CreateProduct(context.Background(), CreateProductInput{
		SellerID: "ghost",
		Name:     "Lamp",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.Zero(t, len(repo.products))
}

func TestSimilarProductsDefaultsTopK(t *testing.T) {
	index := newFakeVectorIndex()
	for i := 0; i < 7; i++ {
		index.matches = append(index.matches, vector.Match{ID: fmt.Sprintf("p%d", i), Score: 1 - float64(i)/10})
	}
	uc, _, _ := newProductUseCaseForTest(&fakeInference{}, index)

	matches, err := uc.SimilarProducts(context.Background(), "tent", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 5)

	matches, err = uc.SimilarProducts(context.Background(), "tent", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
