package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"bartertrade/internal/domain/entity"
	"bartertrade/internal/domain/repository"
	"bartertrade/internal/usecase"
	"bartertrade/pkg/errors"
	"bartertrade/pkg/response"
	"bartertrade/pkg/utils"
)

type DonationHandler struct {
	donationUseCase *usecase.DonationUseCase
}

func NewDonationHandler(donationUseCase *usecase.DonationUseCase) *DonationHandler {
	return &DonationHandler{
		donationUseCase: donationUseCase,
	}
}

type claimDonationRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Avatar string `json:"avatar"`
}

func (h *DonationHandler) CreateDonation(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid multipart form", err))
	}

	name := c.FormValue("name")
	donorID := c.FormValue("donor_id")
	if name == "" || donorID == "" {
		return response.Error(c, errors.BadRequest("name and donor_id are required", nil))
	}

	images, err := readFormImages(form.File["images"])
	if err != nil {
		return response.Error(c, err)
	}

	input := usecase.CreateDonationInput{
		Name:        name,
		Description: c.FormValue("description"),
		Categories:  c.FormValue("categories"),
		Condition:   c.FormValue("condition"),
		Donor: entity.DonorInfo{
			ID:        donorID,
			Name:      c.FormValue("donor_name"),
			Email:     c.FormValue("donor_email"),
			AvatarURL: c.FormValue("donor_avatar"),
		},
		Images: images,
	}
	input.Latitude, input.Longitude = parseCoordinates(c.FormValue("latitude"), c.FormValue("longitude"))

	donation, err := h.donationUseCase.CreateDonation(c.Request().Context(), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, donation)
}

func (h *DonationHandler) GetDonation(c echo.Context) error {
	donation, err := h.donationUseCase.GetDonation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, donation)
}

func (h *DonationHandler) ListDonations(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	filter := repository.DonationFilter{
		Category:      c.QueryParam("category"),
		AvailableOnly: c.QueryParam("available") == "true",
	}

	donations, total, err := h.donationUseCase.ListDonations(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, donations, total, pagination.Page, pagination.PageSize)
}

// ClaimDonation reserves an available donation for the claimer. A donation
// already claimed yields a conflict.
func (h *DonationHandler) ClaimDonation(c echo.Context) error {
	var req claimDonationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	donation, err := h.donationUseCase.ClaimDonation(c.Request().Context(), c.Param("id"), entity.DonorInfo{
		ID:        req.UserID,
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.Avatar,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, donation)
}

func (h *DonationHandler) NearbyDonations(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr != nil || lngErr != nil {
		return response.Error(c, errors.BadRequest("lat and lng are required", nil))
	}

	radiusKm := 10.0
	if radiusStr := c.QueryParam("radius_km"); radiusStr != "" {
		if parsed, err := strconv.ParseFloat(radiusStr, 64); err == nil && parsed > 0 {
			radiusKm = parsed
		}
	}

	limit := 20
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	donations, err := h.donationUseCase.NearbyDonations(c.Request().Context(), lat, lng, radiusKm, limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, donations)
}
