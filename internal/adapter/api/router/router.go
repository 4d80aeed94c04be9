package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bartertrade/internal/adapter/api/handler"
)

type Handlers struct {
	Chat      *handler.ChatHandler
	WebSocket *handler.WebSocketHandler
	Product   *handler.ProductHandler
	Donation  *handler.DonationHandler
	User      *handler.UserHandler
	Health    *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers) {
	SetupChatRouter(e, h.Chat, h.WebSocket)
	SetupProductRouter(e, h.Product)
	SetupDonationRouter(e, h.Donation)
	SetupUserRouter(e, h.User)
	SetupHealthRouter(e, h.Health)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
