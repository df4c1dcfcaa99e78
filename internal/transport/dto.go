package transport

import (
	"time"

	"github.com/Skotchmaster/todo_app/internal/models"
)

type UserRequest struct {
	Username    string      `json:"username"     form:"username"     validate:"required,min=2,max=50"`
	Email       string      `json:"email"        form:"email"        validate:"required,min=2,max=50"`
	FirstName   string      `json:"first_name"   form:"first_name"   validate:"required,min=2,max=50"`
	LastName    string      `json:"last_name"    form:"last_name"    validate:"required,min=2,max=50"`
	Role        models.Role `json:"role"         form:"role"         validate:"required,oneof=user admin"`
	Password    string      `json:"password"     form:"password"     validate:"required,min=8,max=50,bcrypt"`
	PhoneNumber *string     `json:"phone_number" form:"phone_number" validate:"omitempty,min=9,max=15"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type UserResponse struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Role        models.Role `json:"role"`
	PhoneNumber *string     `json:"phone_number"`
	IsActive    bool        `json:"is_active"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
	}
}

type TokenResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

type PasswordResetRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=50,bcrypt"`
}

type PhoneNumberRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=9,max=15"`
}

// Complete is a pointer so a missing field fails validation instead of reading as false.
type TodoRequest struct {
	Title       string `json:"title"       validate:"required,min=5,max=50"`
	Description string `json:"description" validate:"required,min=10,max=100"`
	Priority    int    `json:"priority"    validate:"required,min=1,max=5"`
	Complete    *bool  `json:"complete"    validate:"required"`
}
