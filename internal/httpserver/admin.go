package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/todo_app/internal/logging"
	"github.com/Skotchmaster/todo_app/internal/service"
)

// AdminHTTP routes are mounted behind RequireRole(admin).
type AdminHTTP struct {
	Svc *service.TodoService
}

func (h *AdminHTTP) ListTodos(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_todos")

	items, err := h.Svc.ListAll(ctx)
	if err != nil {
		return httpError(l, "admin_list_todos_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHTTP) DeleteTodo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_todo")

	id, err := pathID(c, l, "admin_delete_todo_failed")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteAny(ctx, id); err != nil {
		return httpError(l, "admin_delete_todo_failed", err)
	}
	l.Info("admin_delete_todo_success", "todo_id", id)
	return c.NoContent(http.StatusNoContent)
}
