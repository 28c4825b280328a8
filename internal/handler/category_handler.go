package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/service"
	"shop-service/pkg/apperr"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

// CategoryHandler serves the category tree
type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return fail(c, "category", err)
	}
	return ok(c, categories)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "category", err)
	}
	category, err := h.categories.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "category", err)
	}
	return ok(c, category)
}

func (h *CategoryHandler) ListHeads(c echo.Context) error {
	heads, err := h.categories.ListHeads(c.Request().Context())
	if err != nil {
		return fail(c, "category", err)
	}
	return ok(c, heads)
}

func (h *CategoryHandler) ListHeadsWithNested(c echo.Context) error {
	nodes, err := h.categories.ListHeadsWithChildren(c.Request().Context())
	if err != nil {
		return fail(c, "category", err)
	}
	return ok(c, nodes)
}

// NestedByHead serves one head with its children. The head id comes from
// the path, or from parentId in the body when the path has none.
func (h *CategoryHandler) NestedByHead(c echo.Context) error {
	id, err := h.headID(c)
	if err != nil {
		return fail(c, "category", err)
	}
	node, err := h.categories.GetNestedByHeadID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "category", err)
	}
	return ok(c, node)
}

func (h *CategoryHandler) headID(c echo.Context) (uint, error) {
	if c.Param("id") != "" {
		return idParam(c, "id")
	}
	in, err := bindFields(c)
	if err != nil {
		return 0, err
	}
	if p := in.UintPtr("parentId"); p != nil && *p > 0 {
		return *p, nil
	}
	return 0, apperr.ValidationFailed([]apperr.Violation{{Field: "parentId", Message: "Parent id must be a number"}})
}

func (h *CategoryHandler) Create(c echo.Context) error {
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "category", err)
	}
	image, done, err := formFile(c, "image")
	defer done()
	if err != nil {
		return fail(c, "category", err)
	}

	category, err := h.categories.Create(c.Request().Context(), in, image)
	if err != nil {
		return fail(c, "category", err)
	}
	logger.FromEcho(c).Info("Category created", zap.Uint("category_id", category.ID))
	prometheus.RecordEntityOperation("category", "create")
	return ok(c, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "category", err)
	}
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "category", err)
	}
	image, done, err := formFile(c, "image")
	defer done()
	if err != nil {
		return fail(c, "category", err)
	}

	category, err := h.categories.Update(c.Request().Context(), id, in, image)
	if err != nil {
		return fail(c, "category", err)
	}
	prometheus.RecordEntityOperation("category", "update")
	return ok(c, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "category", err)
	}
	if err := h.categories.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "category", err)
	}
	prometheus.RecordEntityOperation("category", "delete")
	return ok(c, "Category with ID "+strconv.FormatUint(uint64(id), 10)+" deleted")
}
