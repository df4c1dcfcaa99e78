package service

import (
	"github.com/Skotchmaster/todo_app/internal/models"
	"github.com/Skotchmaster/todo_app/internal/tokens"
)

// Authorize allows the identity only when its role equals required.
func Authorize(id *tokens.Identity, required models.Role) error {
	if id == nil || id.Role != required {
		return ErrAuthorization
	}
	return nil
}
