package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/todo_app/internal/db"
	"github.com/Skotchmaster/todo_app/internal/events"
	authmw "github.com/Skotchmaster/todo_app/internal/middleware/auth"
	"github.com/Skotchmaster/todo_app/internal/models"
	"github.com/Skotchmaster/todo_app/internal/repo"
	"github.com/Skotchmaster/todo_app/internal/service"
	"github.com/Skotchmaster/todo_app/internal/testdb"
	"github.com/Skotchmaster/todo_app/internal/tokens"
	"github.com/Skotchmaster/todo_app/internal/transport"
)

const loginPath = "/auth/login-page"

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, _ string, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, event.Type)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type server struct {
	e      *echo.Echo
	tokens *tokens.Service
	pub    *recordingPublisher
}

func newServer(t *testing.T) *server {
	t.Helper()

	gdb := testdb.New(t)
	r := repo.New(gdb)
	ts, err := tokens.NewService([]byte("test-jwt-secret"), "HS256")
	require.NoError(t, err)
	pub := &recordingPublisher{}

	authSvc := &service.AuthService{Repo: r, Tokens: ts, Events: pub, HashCost: bcrypt.MinCost}
	todoSvc := &service.TodoService{Repo: r, Events: pub}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:   &AuthHTTP{Svc: authSvc},
		TodoHandler:   &TodoHTTP{Svc: todoSvc},
		AdminHandler:  &AdminHTTP{Svc: todoSvc},
		UserHandler:   &UserHTTP{Svc: authSvc},
		HealthHandler: &HealthHTTP{Ready: func(ctx context.Context) error { return db.Ping(ctx, gdb) }},
		Auth:          authmw.New(ts, loginPath, false),
	})
	return &server{e: e, tokens: ts, pub: pub}
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func newUser(username string, role models.Role) map[string]any {
	return map[string]any{
		"username":   username,
		"email":      username + "@example.com",
		"first_name": "Mateusz",
		"last_name":  "Kowalski",
		"role":       role,
		"password":   "secretpass",
	}
}

func (s *server) register(t *testing.T, username string, role models.Role) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/", "", newUser(username, role))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *server) login(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/token", "", map[string]string{"username": username, "password": "secretpass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.AccessToken
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func todoBody(title string) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "a description long enough",
		"priority":    3,
		"complete":    false,
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"Healthy"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/auth/", "", newUser("mateusz", models.RoleAdmin))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secretpass")
	assert.NotContains(t, rec.Body.String(), "hashed_password")

	rec = s.do(t, http.MethodPost, "/auth/", "", newUser("mateusz", models.RoleUser))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/token", "", map[string]string{"username": "mateusz", "password": "secretpass"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, "mateusz", res.User.Username)

	id, err := s.tokens.Validate(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "mateusz", id.Username)
	assert.Equal(t, models.RoleAdmin, id.Role)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, authmw.AccessCookie, cookies[0].Name)
	assert.Equal(t, res.AccessToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	assert.Equal(t, []string{events.UserRegistered, events.UserLoggedIn}, s.pub.types)
}

func TestRegister_Validation(t *testing.T) {
	s := newServer(t)

	short := newUser("mateusz", models.RoleUser)
	short["password"] = "short"
	rec := s.do(t, http.MethodPost, "/auth/", "", short)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "password")

	bad := newUser("mateusz", models.Role("root"))
	rec = s.do(t, http.MethodPost, "/auth/", "", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLogin_Failures(t *testing.T) {
	s := newServer(t)
	s.register(t, "mateusz", models.RoleUser)

	rec := s.do(t, http.MethodPost, "/auth/token", "", map[string]string{"username": "ghost", "password": "secretpass"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", errMessage(t, rec))

	rec = s.do(t, http.MethodPost, "/auth/token", "", map[string]string{"username": "mateusz", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect password", errMessage(t, rec))
}

func TestLogin_Form(t *testing.T) {
	s := newServer(t)
	s.register(t, "mateusz", models.RoleUser)

	form := url.Values{"username": {"mateusz"}, "password": {"secretpass"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}

func TestTodos_RequireAuth(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Could not authenticate user", errMessage(t, rec))

	rec = s.do(t, http.MethodGet, "/todos", "invalid_token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTodos_BrowserRedirect(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set(echo.HeaderAccept, "text/html")
	req.AddCookie(&http.Cookie{Name: authmw.AccessCookie, Value: "invalid_token"})
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loginPath, rec.Header().Get(echo.HeaderLocation))
}

func TestTodos_Lifecycle(t *testing.T) {
	s := newServer(t)
	s.register(t, "mateusz", models.RoleUser)
	tok := s.login(t, "mateusz")

	rec := s.do(t, http.MethodPost, "/todos/todo", tok, todoBody("Buy milk"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)

	path := "/todos/" + jsonNumber(created.ID)

	rec = s.do(t, http.MethodGet, path, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	update := todoBody("Buy oat milk")
	update["complete"] = true
	rec = s.do(t, http.MethodPut, path, tok, update)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, path, tok, nil)
	var got models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.True(t, got.Complete)

	rec = s.do(t, http.MethodGet, "/todos/search?q=oat", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 1)

	rec = s.do(t, http.MethodGet, "/todos", tok, nil)
	var list []models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, tok, nil).Code)

	rec = s.do(t, http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TODO not found", errMessage(t, rec))
}

func TestTodos_Validation(t *testing.T) {
	s := newServer(t)
	s.register(t, "mateusz", models.RoleUser)
	tok := s.login(t, "mateusz")

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodGet, "/todos/0", tok, nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodGet, "/todos/abc", tok, nil).Code)

	short := todoBody("Buy")
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPost, "/todos/todo", tok, short).Code)

	noComplete := todoBody("Buy milk")
	delete(noComplete, "complete")
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPost, "/todos/todo", tok, noComplete).Code)

	badPriority := todoBody("Buy milk")
	badPriority["priority"] = 6
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPost, "/todos/todo", tok, badPriority).Code)

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodGet, "/todos/search", tok, nil).Code)
}

func TestTodos_OwnerIsolation(t *testing.T) {
	s := newServer(t)
	s.register(t, "alice", models.RoleUser)
	s.register(t, "bob", models.RoleUser)
	alice := s.login(t, "alice")
	bob := s.login(t, "bob")

	rec := s.do(t, http.MethodPost, "/todos/todo", alice, todoBody("Alice's todo"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := "/todos/" + jsonNumber(created.ID)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, path, bob, todoBody("Bob was here")).Code)
}

func TestAdmin(t *testing.T) {
	s := newServer(t)
	s.register(t, "mateusz", models.RoleAdmin)
	s.register(t, "johndoe", models.RoleUser)
	admin := s.login(t, "mateusz")
	user := s.login(t, "johndoe")

	rec := s.do(t, http.MethodPost, "/todos/todo", user, todoBody("User's todo"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = s.do(t, http.MethodGet, "/admin/todos", user, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Permission denied", errMessage(t, rec))

	rec = s.do(t, http.MethodGet, "/admin/todos", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	path := "/admin/todos/" + jsonNumber(created.ID)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, admin, nil).Code)
}

func TestUser(t *testing.T) {
	s := newServer(t)
	s.register(t, "mateusz", models.RoleUser)
	tok := s.login(t, "mateusz")

	rec := s.do(t, http.MethodGet, "/user/info", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info transport.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "mateusz", info.Username)
	assert.Nil(t, info.PhoneNumber)

	rec = s.do(t, http.MethodPut, "/user/phone_number", tok, map[string]string{"phone_number": "+48123456789"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodPut, "/user/phone_number", tok, map[string]string{"phone_number": "123"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPut, "/user/password", tok, map[string]string{"current_password": "wrongpass", "new_password": "newsecret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect password", errMessage(t, rec))

	rec = s.do(t, http.MethodPut, "/user/password", tok, map[string]string{"current_password": "secretpass", "new_password": "newsecret1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/token", "", map[string]string{"username": "mateusz", "password": "newsecret1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordOverBcryptLimit(t *testing.T) {
	s := newServer(t)
	// 50 characters pass the length rule but take 150 bytes
	long := strings.Repeat("€", 50)

	body := newUser("mateusz", models.RoleUser)
	body["password"] = long
	rec := s.do(t, http.MethodPost, "/auth/", "", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "password")

	s.register(t, "johndoe", models.RoleUser)
	tok := s.login(t, "johndoe")

	rec = s.do(t, http.MethodPut, "/user/password", tok, map[string]string{"current_password": "secretpass", "new_password": long})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "new_password")

	rec = s.do(t, http.MethodPost, "/auth/token", "", map[string]string{"username": "johndoe", "password": "secretpass"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTodos_ListWithTrailingSlash(t *testing.T) {
	s := newServer(t)
	s.register(t, "mateusz", models.RoleUser)
	tok := s.login(t, "mateusz")

	rec := s.do(t, http.MethodPost, "/todos/todo", tok, todoBody("Buy milk"))
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, path := range []string{"/todos", "/todos/"} {
		rec = s.do(t, http.MethodGet, path, tok, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		var list []models.Todo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 1, path)
	}
}

func jsonNumber(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
