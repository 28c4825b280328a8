package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/service"
	"shop-service/pkg/apperr"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

// AuthHandler serves registration and login
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c echo.Context) error {
	in, err := bindFields(c)
	if err != nil {
		return fail(c, "user", err)
	}
	user, err := h.auth.Register(c.Request().Context(), in)
	if err != nil {
		return fail(c, "user", err)
	}

	logger.FromEcho(c).Info("User registered", zap.Uint("user_id", user.ID))
	prometheus.RecordEntityOperation("user", "register")
	return ok(c, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	prometheus.RecordLoginAttempt()
	in, err := bindFields(c)
	if err != nil {
		prometheus.RecordAuthError("invalid_request")
		return fail(c, "auth", err)
	}

	res, err := h.auth.Login(c.Request().Context(), in)
	if err != nil {
		prometheus.RecordAuthError(loginErrorType(err))
		return fail(c, "auth", err)
	}

	logger.FromEcho(c).Info("User logged in", zap.Uint("user_id", res.UserData.UserID))
	prometheus.RecordLoginSuccess()
	return ok(c, res)
}

func loginErrorType(err error) string {
	switch apperr.ErrorCode(err) {
	case apperr.ENotFound:
		return "user_not_found"
	case apperr.EInvalid:
		if len(apperr.ViolationsOf(err)) > 0 {
			return "invalid_request"
		}
		return "invalid_password"
	default:
		return "internal"
	}
}
