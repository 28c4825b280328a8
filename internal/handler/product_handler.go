package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/service"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

// ProductHandler serves the catalogue
type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return fail(c, "product", err)
	}
	return ok(c, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "product", err)
	}
	product, err := h.products.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "product", err)
	}
	return ok(c, product)
}

// ListOnSale serves GET /products/sales?page=&pageSize=
func (h *ProductHandler) ListOnSale(c echo.Context) error {
	page, err := h.products.ListOnSale(c.Request().Context(), pageRequest(c))
	return respondPage(c, "product", page, err)
}

// ListByCategory serves GET /products/category/:categoryId?page=&pageSize=
func (h *ProductHandler) ListByCategory(c echo.Context) error {
	categoryID, err := idParam(c, "categoryId")
	if err != nil {
		return fail(c, "product", err)
	}
	page, err := h.products.ListByCategory(c.Request().Context(), categoryID, pageRequest(c))
	return respondPage(c, "product", page, err)
}

func (h *ProductHandler) Create(c echo.Context) error {
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "product", err)
	}
	images, done, err := formFiles(c, "images")
	defer done()
	if err != nil {
		return fail(c, "product", err)
	}

	product, err := h.products.Create(c.Request().Context(), in, images)
	if err != nil {
		return fail(c, "product", err)
	}
	logger.FromEcho(c).Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.Int("article", product.Article),
		zap.Int("images", len(product.Images)))
	prometheus.RecordEntityOperation("product", "create")
	return ok(c, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "product", err)
	}
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "product", err)
	}
	images, done, err := formFiles(c, "images")
	defer done()
	if err != nil {
		return fail(c, "product", err)
	}

	product, err := h.products.Update(c.Request().Context(), id, in, images)
	if err != nil {
		return fail(c, "product", err)
	}
	prometheus.RecordEntityOperation("product", "update")
	return ok(c, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "product", err)
	}
	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "product", err)
	}
	prometheus.RecordEntityOperation("product", "delete")
	return ok(c, "Product deleted")
}
