package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

const (
	ctxUserID   = "user_id"
	ctxJTI      = "jti"
	ctxTokenExp = "token_exp"
)

// bearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func setUserContext(c echo.Context, id tokens.Identity) {
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxJTI, id.JTI)
	c.Set(ctxTokenExp, id.ExpiresAt)

	ctx := logging.With(c.Request().Context(), "user_id", id.UserID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// IdentityFrom returns the identity attached by RequireAuth.
func IdentityFrom(c echo.Context) (tokens.Identity, bool) {
	userID, ok := c.Get(ctxUserID).(uint)
	if !ok || userID == 0 {
		return tokens.Identity{}, false
	}
	jti, _ := c.Get(ctxJTI).(string)
	exp, _ := c.Get(ctxTokenExp).(time.Time)

	return tokens.Identity{UserID: userID, JTI: jti, ExpiresAt: exp}, true
}
