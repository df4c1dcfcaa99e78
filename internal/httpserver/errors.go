package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/todo_app/internal/service"
	"github.com/Skotchmaster/todo_app/internal/tokens"
)

const (
	msgUserNotFound      = "User not found"
	msgIncorrectPassword = "Incorrect password"
	msgAuthentication    = "Could not authenticate user"
	msgAuthorization     = "Permission denied"
	msgTodoNotFound      = "TODO not found"
	msgUserExists        = "User already exists"
	msgInvalidBody       = "invalid body"
	msgInvalidID         = "id must be a positive integer"
	msgInternal          = "internal server error"
)

// httpError maps service errors to their fixed client messages and logs the
// outcome under event.
func httpError(l *slog.Logger, event string, err error) error {
	code, msg := http.StatusInternalServerError, msgInternal
	switch {
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, msgUserNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, msgIncorrectPassword
	case errors.Is(err, tokens.ErrAuthentication):
		code, msg = http.StatusUnauthorized, msgAuthentication
	case errors.Is(err, service.ErrAuthorization):
		code, msg = http.StatusForbidden, msgAuthorization
	case errors.Is(err, service.ErrTodoNotFound):
		code, msg = http.StatusNotFound, msgTodoNotFound
	case errors.Is(err, service.ErrConflict):
		code, msg = http.StatusConflict, msgUserExists
	case errors.Is(err, service.ErrValidation):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	}

	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}
