package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/todo_app/internal/events"
	"github.com/Skotchmaster/todo_app/internal/hash"
	"github.com/Skotchmaster/todo_app/internal/logging"
	"github.com/Skotchmaster/todo_app/internal/models"
	"github.com/Skotchmaster/todo_app/internal/repo"
	"github.com/Skotchmaster/todo_app/internal/tokens"
	"github.com/Skotchmaster/todo_app/internal/transport"
)

const DefaultTokenTTL = time.Hour

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Service
	TokenTTL time.Duration
	Events   events.Publisher
	// HashCost overrides bcrypt.DefaultCost when non-zero.
	HashCost int
}

type LoginResult struct {
	User        *models.User
	AccessToken string
	AccessExp   time.Time
}

func (s *AuthService) hashPassword(password string) ([]byte, error) {
	if len(password) > hash.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password longer than %d bytes", ErrValidation, hash.MaxPasswordBytes)
	}
	if s.HashCost != 0 {
		return hash.HashPasswordCost(password, s.HashCost)
	}
	return hash.HashPassword(password)
}

func (s *AuthService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return DefaultTokenTTL
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, events.TopicUsers, fmt.Sprint(event.UserID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", events.TopicUsers, "type", event.Type, "error", err)
	}
}

func (s *AuthService) Register(ctx context.Context, req transport.UserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	pwHash, err := s.hashPassword(req.Password)
	if err != nil {
		l.Warn("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: pwHash,
		IsActive:       true,
		Role:           req.Role,
		PhoneNumber:    req.PhoneNumber,
	}

	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_failed", "reason", "user_exists")
			return nil, ErrConflict
		}
		l.Error("register_error", "reason", "db_error", "error", err)
		return nil, err
	}

	event := events.New(events.UserRegistered, user.ID)
	event.Username = user.Username
	s.publish(ctx, event)

	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// Authenticate looks the user up by exact username and checks the password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !hash.CheckPassword(user.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return nil, err
	}

	token, exp, err := s.Tokens.Issue(user.Username, user.ID, user.Role, s.ttl())
	if err != nil {
		l.Error("login_failed", "reason", "cannot create token", "error", err)
		return nil, err
	}

	event := events.New(events.UserLoggedIn, user.ID)
	event.Username = user.Username
	s.publish(ctx, event)

	return &LoginResult{User: user, AccessToken: token, AccessExp: exp}, nil
}

func (s *AuthService) UserInfo(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "user_id", id)

	user, err := s.UserInfo(ctx, id)
	if err != nil {
		return err
	}
	if !hash.CheckPassword(user.HashedPassword, current) {
		l.Warn("change_password_failed", "reason", "incorrect password")
		return ErrInvalidCredentials
	}

	pwHash, err := s.hashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, id, pwHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.publish(ctx, events.New(events.PasswordChanged, id))
	l.Info("change_password_success")
	return nil
}

func (s *AuthService) UpdatePhoneNumber(ctx context.Context, id uint, phone string) error {
	if err := s.Repo.UpdatePhoneNumber(ctx, id, phone); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
