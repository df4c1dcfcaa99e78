package service

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrAuthorization      = errors.New("permission denied")
	ErrTodoNotFound       = errors.New("todo not found")
	ErrConflict           = errors.New("user already exists")
	ErrValidation         = errors.New("validation error")
)
