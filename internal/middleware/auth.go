package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/access"
	"shop-service/internal/model"
	"shop-service/pkg/apperr"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

const principalKey = "principal"

// TokenHeader is the legacy header that carries a raw token
const TokenHeader = "token"

// TokenValidator verifies a bearer token
type TokenValidator interface {
	ValidateToken(token string) (*jwtutil.UserClaims, error)
}

// AuthMiddleware verifies the request token and stores the principal on the
// context. Requests without a valid token are answered with 401.
func AuthMiddleware(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			token := tokenFrom(c.Request())
			if token == "" {
				log.Warn("Missing authorization token")
				return deny(c, apperr.Unauthorized("Unauthorized user"))
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				return deny(c, err)
			}

			c.Set(principalKey, &access.Principal{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   model.Role(claims.Role),
			})
			return next(c)
		}
	}
}

// tokenFrom reads "Authorization: Bearer <jwt>" and falls back to the raw
// token header.
func tokenFrom(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(TokenHeader))
}

// PrincipalFrom returns the principal set by AuthMiddleware, or nil
func PrincipalFrom(c echo.Context) *access.Principal {
	p, _ := c.Get(principalKey).(*access.Principal)
	return p
}

// deny answers a guard failure with {"message": ...} and the matching status.
func deny(c echo.Context, err error) error {
	status, msg, kind := http.StatusForbidden, "Access denied", "forbidden"
	if apperr.ErrorCode(err) == apperr.EUnauthorized {
		status, msg, kind = http.StatusUnauthorized, "Unauthorized user", "unauthorized"
	}
	prometheus.RecordAccessDenied(kind)
	return c.JSON(status, echo.Map{"message": msg})
}
