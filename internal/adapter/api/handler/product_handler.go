package handler

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/labstack/echo/v4"

	"bartertrade/internal/domain/repository"
	"bartertrade/internal/usecase"
	"bartertrade/pkg/errors"
	"bartertrade/pkg/response"
	"bartertrade/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

// CreateProduct accepts a multipart form: text fields plus one or more image
// parts under "images".
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid multipart form", err))
	}

	sellerID := c.FormValue("seller_id")
	name := c.FormValue("name")
	if sellerID == "" || name == "" {
		return response.Error(c, errors.BadRequest("seller_id and name are required", nil))
	}

	images, err := readFormImages(form.File["images"])
	if err != nil {
		return response.Error(c, err)
	}

	input := usecase.CreateProductInput{
		SellerID:    sellerID,
		Name:        name,
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Categories:  form.Value["categories"],
		Images:      images,
	}
	input.Latitude, input.Longitude = parseCoordinates(c.FormValue("latitude"), c.FormValue("longitude"))

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := repository.ProductFilter{
		Category:      c.QueryParam("category"),
		SellerID:      c.QueryParam("seller_id"),
		AvailableOnly: c.QueryParam("available") == "true",
	}

	products, total, err := h.productUseCase.ListProducts(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return response.Error(c, errors.BadRequest("q is required", nil))
	}

	pagination := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.SearchProducts(c.Request().Context(), query, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

// SimilarProducts runs the query text through the embedding model and returns
// the nearest listings from the vector index.
func (h *ProductHandler) SimilarProducts(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return response.Error(c, errors.BadRequest("q is required", nil))
	}

	topK := 0
	if topKStr := c.QueryParam("top_k"); topKStr != "" {
		if parsed, err := strconv.Atoi(topKStr); err == nil && parsed > 0 {
			topK = parsed
		}
	}

	matches, err := h.productUseCase.SimilarProducts(c.Request().Context(), query, topK)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, matches)
}

func readFormImages(files []*multipart.FileHeader) ([][]byte, error) {
	images := make([][]byte, 0, len(files))
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			return nil, errors.BadRequest("Failed to open uploaded file", err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, errors.BadRequest("Failed to read uploaded file", err)
		}
		images = append(images, data)
	}
	return images, nil
}

func parseCoordinates(latStr, lngStr string) (*float64, *float64) {
	if latStr == "" || lngStr == "" {
		return nil, nil
	}
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		return nil, nil
	}
	return &lat, &lng
}
