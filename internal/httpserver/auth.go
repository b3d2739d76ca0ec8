package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	middleware "github.com/Skotchmaster/catalog/internal/middleware/auth"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_failed", "status", 400, "reason", "missing fields", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_failed", "status", 409, "reason", "user already exist")
			return echo.NewHTTPError(http.StatusConflict, "Username or email already exists")
		default:
			l.Error("register_failed", "status", 500, "reason", "cannot register user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot register user")
		}
	}

	l.Info("register_success", "user_id", id)
	return c.JSON(http.StatusCreated, transport.RegisterResponse{
		Message: "User registered successfully",
		UserID:  id,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_failed", "status", 400, "reason", "missing fields")
			return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		default:
			l.Error("login_failed", "status", 500, "reason", "cannot log in", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
		}
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken: res.AccessToken,
		User:        transport.NewUserResponse(res.User),
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	id, ok := middleware.IdentityFrom(c)
	if !ok {
		l.Warn("logout_failed", "status", 401, "reason", "no identity in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	if err := h.Svc.Logout(ctx, id.JTI, id.ExpiresAt); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log out")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Successfully logged out"})
}
