package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (tokens.Identity, error)
}

type AuthMiddleware struct {
	Tokens TokenValidator
}

func NewAuthMiddleware(v TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{Tokens: v}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		id, err := m.Tokens.ValidateToken(ctx, raw)
		if err != nil {
			if errors.Is(err, tokens.ErrInvalidToken) {
				l.Warn("auth_failed", "status", 401, "reason", "invalid or expired token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			l.Error("auth_failed", "status", 500, "reason", "cannot verify token", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot verify token")
		}

		setUserContext(c, id)
		return next(c)
	}
}
