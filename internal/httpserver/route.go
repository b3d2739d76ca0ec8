package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/catalog/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	AuthMW         *middleware.AuthMiddleware
	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	requireAuth := d.AuthMW.RequireAuth

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout, requireAuth)

	products := e.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	products.GET("/user", d.CatalogHandler.GetMyProducts, requireAuth)
	products.POST("", d.CatalogHandler.CreateProduct, requireAuth)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct, requireAuth)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, requireAuth)
}
