package router

import (
	"github.com/labstack/echo/v4"

	"bartertrade/internal/adapter/api/handler"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler) {
	users := e.Group("/users")

	users.POST("", userHandler.CreateUser)
	users.GET("/:id", userHandler.GetUser)
}
