package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	middleware "github.com/Skotchmaster/catalog/internal/middleware/auth"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(id), nil
}

// productError maps a catalog service error onto the response the client gets.
func productError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid product data", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(event, "status", 401, "reason", "token owner no longer exists", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "reason", "caller is not the owner")
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "product not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	default:
		l.Error(event, "status", 500, "reason", "storage failure", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.ListAll(ctx)
	if err != nil {
		return productError(l, "get_products_failed", err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetMyProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_my_products")

	id, ok := middleware.IdentityFrom(c)
	if !ok {
		l.Warn("get_my_products_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	items, err := h.Svc.ListByOwner(ctx, id.UserID)
	if err != nil {
		return productError(l, "get_my_products_failed", err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	product, err := h.Svc.GetByID(ctx, id)
	if err != nil {
		return productError(l, "get_product_failed", err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		l.Warn("product_create_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	price, err := transport.ParsePrice(req.Price)
	if err != nil {
		l.Warn("product_create_failed", "status", 400, "reason", "price is not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
	}

	product, err := h.Svc.Create(ctx, caller.UserID, service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
	})
	if err != nil {
		return productError(l, "product_create_failed", err)
	}

	l.Info("product_create_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		l.Warn("product_update_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_update_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	// Body problems are reported by the service after the ownership check.
	var in service.PatchProductInput
	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		in.Invalid = errors.New("invalid body")
	} else {
		in.Name, in.Description = req.Name, req.Description
		in.Price, in.Invalid = transport.ParseRawPrice(req.Price)
	}

	product, err := h.Svc.Update(ctx, id, caller.UserID, in)
	if err != nil {
		return productError(l, "product_update_failed", err)
	}

	l.Info("product_update_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		l.Warn("product_delete_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	id, err := parseID(c)
	if err != nil {
		l.Warn("product_delete_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}

	if err := h.Svc.Delete(ctx, id, caller.UserID); err != nil {
		return productError(l, "product_delete_failed", err)
	}

	l.Info("product_delete_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}
