package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and handlers. Handlers map
// these onto the response envelope; anything unwrapped becomes a 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyVerified    = errors.New("account is already verified")
	ErrNoActiveCode       = errors.New("no active verification code")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrCodeMismatch       = errors.New("verification code does not match")
	ErrDeliveryFailed     = errors.New("verification email was not accepted for delivery")
)

// ValidationError marks structural input failures so handlers can
// distinguish them from internal errors.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
