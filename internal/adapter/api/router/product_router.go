package router

import (
	"github.com/labstack/echo/v4"

	"bartertrade/internal/adapter/api/handler"
)

func SetupProductRouter(e *echo.Echo, productHandler *handler.ProductHandler) {
	products := e.Group("/products")

	products.POST("", productHandler.CreateProduct)
	products.GET("", productHandler.ListProducts)
	products.GET("/search", productHandler.SearchProducts)
	products.GET("/similar", productHandler.SimilarProducts)
	products.GET("/:id", productHandler.GetProduct)
}
