package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("not permitted")
	ErrInvalidTransition = errors.New("invalid quote transition")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInactiveAccount   = errors.New("account is deactivated")
)
