package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/todo_app/internal/logging"
	"github.com/Skotchmaster/todo_app/internal/service"
	"github.com/Skotchmaster/todo_app/internal/transport"
)

type UserHTTP struct {
	Svc *service.AuthService
}

func (h *UserHTTP) Info(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.info")

	who, err := identity(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.UserInfo(ctx, who.ID)
	if err != nil {
		return httpError(l, "user_info_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *UserHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.change_password")

	who, err := identity(c)
	if err != nil {
		return err
	}
	var req transport.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("change_password_error", "status", 422, "error", err)
		return err
	}

	if err := h.Svc.ChangePassword(ctx, who.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return httpError(l, "change_password_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) ChangePhoneNumber(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.change_phone_number")

	who, err := identity(c)
	if err != nil {
		return err
	}
	var req transport.PhoneNumberRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_phone_number_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("change_phone_number_error", "status", 422, "error", err)
		return err
	}

	if err := h.Svc.UpdatePhoneNumber(ctx, who.ID, req.PhoneNumber); err != nil {
		return httpError(l, "change_phone_number_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}
