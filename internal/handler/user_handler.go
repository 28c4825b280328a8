package handler

import (
	"github.com/labstack/echo/v4"

	"shop-service/internal/service"
	"shop-service/prometheus"
)

// UserHandler serves staff user management
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return fail(c, "user", err)
	}
	return ok(c, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "user", err)
	}
	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, "user", err)
	}
	return ok(c, user)
}

// GetByEmail serves GET /users/email?email=
func (h *UserHandler) GetByEmail(c echo.Context) error {
	user, err := h.users.GetByEmail(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return fail(c, "user", err)
	}
	return ok(c, user)
}

func (h *UserHandler) Create(c echo.Context) error {
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "user", err)
	}
	user, err := h.users.Create(c.Request().Context(), in)
	if err != nil {
		return fail(c, "user", err)
	}
	prometheus.RecordEntityOperation("user", "create")
	return ok(c, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "user", err)
	}
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "user", err)
	}
	user, err := h.users.Update(c.Request().Context(), id, in)
	if err != nil {
		return fail(c, "user", err)
	}
	prometheus.RecordEntityOperation("user", "update")
	return ok(c, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, "user", err)
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return fail(c, "user", err)
	}
	prometheus.RecordEntityOperation("user", "delete")
	return ok(c, "User deleted")
}
