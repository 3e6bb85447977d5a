package types

import (
	"errors"
	"fmt"
)

// Domain errors. Services wrap these with %w; the HTTP layer maps them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateUsername  = errors.New("username is already taken")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrValidation         = errors.New("validation failed")
	ErrStorage            = errors.New("image storage failed")
	ErrAIUnavailable      = errors.New("error contacting AI model")
)

// Validationf builds an ErrValidation with a formatted detail message
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound naming the missing entity
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
