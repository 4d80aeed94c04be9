package usecase

import (
	"context"
	"fmt"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/domain/repository"
	"bartertrade/internal/infrastructure/vector"
	"bartertrade/pkg/logger"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	storage     ImageUploader
	vectorIndex VectorIndex
	classifier  InferenceClient
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	storageClient ImageUploader,
	vectorIndex VectorIndex,
	hfClient InferenceClient,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		storage:     storageClient,
		vectorIndex: vectorIndex,
		classifier:  hfClient,
	}
}

type CreateProductInput struct {
	SellerID    string
	Name        string
	Description string
	Price       string
	Categories  []string
	Images      [][]byte
	Latitude    *float64
	Longitude   *float64
}

// CreateProduct uploads the images, classifies the first one, stores the
// product document and upserts its text embedding into the similarity index.
// Classification and indexing failures are logged, not fatal: the listing is
// usable without them.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	if _, err := uc.userRepo.GetByID(ctx, input.SellerID); err != nil {
		return nil, err
	}

	product := &entity.Product{
		SellerID:    input.SellerID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Categories:  input.Categories,
		Available:   true,
	}
	if input.Latitude != nil && input.Longitude != nil {
		product.Location = entity.NewGeoPoint(*input.Latitude, *input.Longitude)
	}

	for i, data := range input.Images {
		result, err := uc.storage.UploadImage(ctx, data, "products", input.SellerID, i+1)
		if err != nil {
			return nil, err
		}
		product.Images = append(product.Images, entity.ProductImage{
			URL:    result.URL,
			Format: result.Format,
			Width:  result.Width,
			Height: result.Height,
		})
	}

	if len(input.Images) > 0 {
		labels, err := uc.classifier.Classify(ctx, input.Images[0])
		if err != nil {
			logger.Warn("Image classification failed for product by %s: %v", input.SellerID, err)
		} else {
			for _, l := range labels {
				product.ImageLabels = append(product.ImageLabels, entity.ImageLabel{Label: l.Label, Score: l.Score})
			}
		}
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	if err := uc.indexProduct(ctx, product); err != nil {
		logger.Warn("Vector indexing failed for product %s: %v", product.ID, err)
	}

	return product, nil
}

func (uc *ProductUseCase) indexProduct(ctx context.Context, product *entity.Product) error {
	combined := fmt.Sprintf("%s %s %s", product.Name, product.Description, product.Price)
	embedding, err := uc.classifier.Embed(ctx, combined)
	if err != nil {
		return err
	}

	metadata := map[string]interface{}{
		"productName":        product.Name,
		"productDescription": product.Description,
		"productPrice":       product.Price,
	}
	return uc.vectorIndex.Upsert(ctx, product.ID, embedding, metadata)
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.List(ctx, filter, limit, offset)
}

func (uc *ProductUseCase) SearchProducts(ctx context.Context, query string, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.Search(ctx, query, limit, offset)
}

// SimilarProducts embeds the query text and returns the metadata of the
// nearest listings in the similarity index.
func (uc *ProductUseCase) SimilarProducts(ctx context.Context, query string, topK int) ([]vector.Match, error) {
	if topK <= 0 {
		topK = 5
	}

	embedding, err := uc.classifier.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	return uc.vectorIndex.Query(ctx, embedding, topK)
}
