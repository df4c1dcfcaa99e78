package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/todo_app/internal/logging"
	authmw "github.com/Skotchmaster/todo_app/internal/middleware/auth"
	"github.com/Skotchmaster/todo_app/internal/service"
	"github.com/Skotchmaster/todo_app/internal/transport"
)

type AuthHTTP struct {
	Svc           *service.AuthService
	SecureCookies bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.UserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("register_error", "status", 422, "error", err)
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return httpError(l, "register_failed", err)
	}

	return c.JSON(http.StatusCreated, transport.NewUserResponse(user))
}

// Login accepts both form posts from the login page and JSON bodies.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 422, "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(l, "login_failed", err)
	}

	c.SetCookie(authmw.CreateCookie(authmw.AccessCookie, res.AccessToken, "/", res.AccessExp, h.SecureCookies))
	l.Info("login_successful", "user_id", res.User.ID)

	return c.JSON(http.StatusOK, transport.TokenResponse{
		User:        transport.NewUserResponse(res.User),
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   res.AccessExp,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth.logout")

	c.SetCookie(authmw.DeleteCookie(authmw.AccessCookie, "/", h.SecureCookies))
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
