package users

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProviderMismatch   = errors.New("user already exists with a different authentication provider")
)
