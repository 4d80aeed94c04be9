package router

import (
	"github.com/labstack/echo/v4"

	"bartertrade/internal/adapter/api/handler"
)

func SetupDonationRouter(e *echo.Echo, donationHandler *handler.DonationHandler) {
	donations := e.Group("/donations")

	donations.POST("", donationHandler.CreateDonation)
	donations.GET("", donationHandler.ListDonations)
	donations.GET("/nearby", donationHandler.NearbyDonations)
	donations.GET("/:id", donationHandler.GetDonation)
	donations.POST("/:id/claim", donationHandler.ClaimDonation)
}
