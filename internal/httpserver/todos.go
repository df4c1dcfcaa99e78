package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/todo_app/internal/logging"
	authmw "github.com/Skotchmaster/todo_app/internal/middleware/auth"
	"github.com/Skotchmaster/todo_app/internal/service"
	"github.com/Skotchmaster/todo_app/internal/tokens"
	"github.com/Skotchmaster/todo_app/internal/transport"
	"github.com/Skotchmaster/todo_app/internal/util"
)

type TodoHTTP struct {
	Svc *service.TodoService
}

func identity(c echo.Context) (*tokens.Identity, error) {
	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, msgAuthentication)
	}
	return id, nil
}

func pathID(c echo.Context, l *slog.Logger, event string) (uint, error) {
	id, err := util.ParseID(c.Param("id"))
	if err != nil {
		l.Warn(event, "status", 422, "reason", "bad id", "id", c.Param("id"))
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, msgInvalidID)
	}
	return id, nil
}

func bindTodo(c echo.Context, l *slog.Logger, event string) (transport.TodoRequest, error) {
	var req transport.TodoRequest
	if err := c.Bind(&req); err != nil {
		l.Warn(event, "status", 400, "error", err)
		return req, echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn(event, "status", 422, "error", err)
		return req, err
	}
	return req, nil
}

func (h *TodoHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "todos.list")

	who, err := identity(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.List(ctx, who.ID)
	if err != nil {
		return httpError(l, "list_todos_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TodoHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "todos.get")

	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, l, "get_todo_failed")
	if err != nil {
		return err
	}

	todo, err := h.Svc.Get(ctx, who.ID, id)
	if err != nil {
		return httpError(l, "get_todo_failed", err)
	}
	return c.JSON(http.StatusOK, todo)
}

func (h *TodoHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "todos.create")

	who, err := identity(c)
	if err != nil {
		return err
	}
	req, err := bindTodo(c, l, "create_todo_error")
	if err != nil {
		return err
	}

	todo, err := h.Svc.Create(ctx, who.ID, req)
	if err != nil {
		return httpError(l, "create_todo_failed", err)
	}
	l.Info("create_todo_success", "todo_id", todo.ID)
	return c.JSON(http.StatusCreated, todo)
}

func (h *TodoHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "todos.update")

	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, l, "update_todo_failed")
	if err != nil {
		return err
	}
	req, err := bindTodo(c, l, "update_todo_error")
	if err != nil {
		return err
	}

	if err := h.Svc.Update(ctx, who.ID, id, req); err != nil {
		return httpError(l, "update_todo_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TodoHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "todos.delete")

	who, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, l, "delete_todo_failed")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, who.ID, id); err != nil {
		return httpError(l, "delete_todo_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TodoHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "todos.search")

	who, err := identity(c)
	if err != nil {
		return err
	}
	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_todos_failed", "status", 422, "reason", "empty query")
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "q is required")
	}

	items, err := h.Svc.Search(ctx, who.ID, q)
	if err != nil {
		return httpError(l, "search_todos_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}
