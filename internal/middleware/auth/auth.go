package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/todo_app/internal/logging"
	"github.com/Skotchmaster/todo_app/internal/models"
	"github.com/Skotchmaster/todo_app/internal/service"
	"github.com/Skotchmaster/todo_app/internal/tokens"
)

const CtxIdentity = "identity"

const (
	msgAuthentication = "Could not authenticate user"
	msgAuthorization  = "Permission denied"
)

var errNoToken = errors.New("no access token")

type Middleware struct {
	Tokens        *tokens.Service
	LoginPath     string
	SecureCookies bool
}

func New(ts *tokens.Service, loginPath string, secureCookies bool) *Middleware {
	return &Middleware{Tokens: ts, LoginPath: loginPath, SecureCookies: secureCookies}
}

// extractToken prefers the Authorization header over the cookie.
func extractToken(c echo.Context) (token string, fromCookie bool, err error) {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, value, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(value) == "" {
			return "", false, errNoToken
		}
		return strings.TrimSpace(value), false, nil
	}
	cookie, err := c.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		return "", false, errNoToken
	}
	return cookie.Value, true, nil
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

// RequireAuth stores the caller's *tokens.Identity under CtxIdentity.
// Browser requests carrying a bad cookie are redirected to the login page.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "require_auth")

		raw, fromCookie, err := extractToken(c)
		if err == nil {
			var id *tokens.Identity
			id, err = m.Tokens.Validate(raw)
			if err == nil {
				c.Set(CtxIdentity, id)
				return next(c)
			}
		}

		l.Warn("auth_failed", "status", http.StatusUnauthorized, "from_cookie", fromCookie, "error", err)
		if fromCookie {
			c.SetCookie(DeleteCookie(AccessCookie, "/", m.SecureCookies))
			if wantsHTML(c) && m.LoginPath != "" {
				return c.Redirect(http.StatusFound, m.LoginPath)
			}
		}
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return echo.NewHTTPError(http.StatusUnauthorized, msgAuthentication)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgAuthentication)
			}
			if err := service.Authorize(id, role); err != nil {
				logging.FromContext(c.Request().Context()).Warn("authz_failed",
					"status", http.StatusForbidden, "user_id", id.ID, "role", id.Role, "required", role)
				return echo.NewHTTPError(http.StatusForbidden, msgAuthorization)
			}
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (*tokens.Identity, bool) {
	id, ok := c.Get(CtxIdentity).(*tokens.Identity)
	return id, ok && id != nil
}
