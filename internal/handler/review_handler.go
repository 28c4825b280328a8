package handler

import (
	"github.com/labstack/echo/v4"

	"shop-service/internal/middleware"
	"shop-service/internal/service"
	"shop-service/prometheus"
)

// ReviewHandler serves product reviews
type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.reviews.List(c.Request().Context())
	if err != nil {
		return fail(c, "review", err)
	}
	return ok(c, reviews)
}

func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "review", err)
	}
	review, err := h.reviews.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "review", err)
	}
	return ok(c, review)
}

func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	productID, err := idParam(c, "productId")
	if err != nil {
		return fail(c, "review", err)
	}
	reviews, err := h.reviews.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return fail(c, "review", err)
	}
	return ok(c, reviews)
}

// Create records a review authored by the token's user.
func (h *ReviewHandler) Create(c echo.Context) error {
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "review", err)
	}
	review, err := h.reviews.Create(c.Request().Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		return fail(c, "review", err)
	}
	prometheus.RecordEntityOperation("review", "create")
	return ok(c, review)
}

func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "review", err)
	}
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "review", err)
	}
	review, err := h.reviews.Update(c.Request().Context(), id, in)
	if err != nil {
		return fail(c, "review", err)
	}
	prometheus.RecordEntityOperation("review", "update")
	return ok(c, review)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "review", err)
	}
	if err := h.reviews.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "review", err)
	}
	prometheus.RecordEntityOperation("review", "delete")
	return ok(c, "Review deleted")
}
