package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/todo_app/internal/events"
	"github.com/Skotchmaster/todo_app/internal/models"
	"github.com/Skotchmaster/todo_app/internal/repo"
	"github.com/Skotchmaster/todo_app/internal/testdb"
	"github.com/Skotchmaster/todo_app/internal/tokens"
	"github.com/Skotchmaster/todo_app/internal/transport"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	topics []string
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	repo   *repo.GormRepo
	tokens *tokens.Service
	pub    *recordingPublisher
	auth   *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repo.New(testdb.New(t))
	ts, err := tokens.NewService([]byte("test-jwt-secret"), "HS256")
	require.NoError(t, err)
	pub := &recordingPublisher{}

	return &testEnv{
		repo:   r,
		tokens: ts,
		pub:    pub,
		auth: &AuthService{
			Repo:     r,
			Tokens:   ts,
			Events:   pub,
			HashCost: bcrypt.MinCost,
		},
	}
}

func userRequest(username, password string, role models.Role) transport.UserRequest {
	return transport.UserRequest{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Mateusz",
		LastName:  "Kowalski",
		Role:      role,
		Password:  password,
	}
}

func mustRegister(t *testing.T, env *testEnv, username, password string, role models.Role) *models.User {
	t.Helper()
	u, err := env.auth.Register(context.Background(), userRequest(username, password, role))
	require.NoError(t, err)
	return u
}

var errBroker = errors.New("broker down")
