package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/service"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

// OrderHandler serves checkout and order management
type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return fail(c, "order", err)
	}
	return ok(c, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "order", err)
	}
	order, err := h.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "order", err)
	}
	return ok(c, order)
}

// ListByUser serves GET /orders/users/:userId
func (h *OrderHandler) ListByUser(c echo.Context) error {
	userID, err := idParam(c, "userId")
	if err != nil {
		return fail(c, "order", err)
	}
	orders, err := h.orders.ListOrdersByUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, "order", err)
	}
	return ok(c, orders)
}

// Create places an order. Guests may check out without a token.
func (h *OrderHandler) Create(c echo.Context) error {
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "order", err)
	}
	order, err := h.orders.CreateOrder(c.Request().Context(), in)
	if err != nil {
		return fail(c, "order", err)
	}

	logger.FromEcho(c).Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalSum.StringFixed(2)))
	prometheus.RecordOrderCreated()
	prometheus.RecordEntityOperation("order", "create")
	return ok(c, order)
}

func (h *OrderHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "order", err)
	}
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "order", err)
	}
	order, err := h.orders.Update(c.Request().Context(), id, in)
	if err != nil {
		return fail(c, "order", err)
	}
	prometheus.RecordEntityOperation("order", "update")
	return ok(c, order)
}

func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "order", err)
	}
	if err := h.orders.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "order", err)
	}
	prometheus.RecordEntityOperation("order", "delete")
	return ok(c, "Order deleted")
}
