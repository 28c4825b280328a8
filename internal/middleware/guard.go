package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/access"
	"shop-service/internal/model"
	"shop-service/pkg/logger"
)

// Guard evaluates access guards against the request principal in order and
// rejects the request on the first failure.
func Guard(guards ...access.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFrom(c)
			if err := access.Evaluate(p, guards...); err != nil {
				fields := []zap.Field{zap.String("path", c.Path()), zap.Error(err)}
				if p != nil {
					fields = append(fields, zap.Uint("user_id", p.UserID), zap.String("role", string(p.Role)))
				}
				logger.FromEcho(c).Warn("Access guard rejected request", fields...)
				return deny(c, err)
			}
			return next(c)
		}
	}
}

// RequireRoles admits authenticated principals holding one of roles
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return Guard(access.Authenticated(), access.AnyRole(roles...))
}

func AdminOnly() echo.MiddlewareFunc {
	return RequireRoles(model.RoleAdmin)
}

func AdminOrManager() echo.MiddlewareFunc {
	return RequireRoles(model.RoleAdmin, model.RoleManager)
}
