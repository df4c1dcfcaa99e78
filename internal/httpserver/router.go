package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/todo_app/internal/middleware/auth"
	"github.com/Skotchmaster/todo_app/internal/models"
)

type Deps struct {
	AuthHandler   *AuthHTTP
	TodoHandler   *TodoHTTP
	AdminHandler  *AdminHTTP
	UserHandler   *UserHTTP
	HealthHandler *HealthHTTP
	Auth          *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()

	e.GET("/health", d.HealthHandler.Health)
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.ReadyCheck)

	auth := e.Group("/auth")
	auth.POST("/", d.AuthHandler.Register)
	auth.POST("/token", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.LogOut)

	todos := e.Group("/todos", d.Auth.RequireAuth)
	todos.GET("", d.TodoHandler.List)
	todos.GET("/", d.TodoHandler.List)
	todos.GET("/search", d.TodoHandler.Search)
	todos.POST("/todo", d.TodoHandler.Create)
	todos.GET("/:id", d.TodoHandler.Get)
	todos.PUT("/:id", d.TodoHandler.Update)
	todos.DELETE("/:id", d.TodoHandler.Delete)

	admin := e.Group("/admin", d.Auth.RequireAuth, authmw.RequireRole(models.RoleAdmin))
	admin.GET("/todos", d.AdminHandler.ListTodos)
	admin.DELETE("/todos/:id", d.AdminHandler.DeleteTodo)

	user := e.Group("/user", d.Auth.RequireAuth)
	user.GET("/info", d.UserHandler.Info)
	user.PUT("/password", d.UserHandler.ChangePassword)
	user.PUT("/phone_number", d.UserHandler.ChangePhoneNumber)
}
