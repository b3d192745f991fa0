// Package businessflow contains the core business logic and use cases for the URL lifecycle
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// URL lifecycle errors
	ErrInvalidURL              = errors.New("invalid URL format")
	ErrURLNotFound             = errors.New("short code not found")
	ErrShortCodeTaken          = errors.New("short code already in use")
	ErrShortCodeSpaceExhausted = errors.New("unable to generate unique short code")
	ErrUpdateFieldsRequired    = errors.New("at least one field must be provided for update")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrAccountInactive    = errors.New("account is inactive")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsInvalidURL(err error) bool {
	return errors.Is(err, ErrInvalidURL)
}

func IsURLNotFound(err error) bool {
	return errors.Is(err, ErrURLNotFound)
}

func IsShortCodeTaken(err error) bool {
	return errors.Is(err, ErrShortCodeTaken)
}

func IsShortCodeSpaceExhausted(err error) bool {
	return errors.Is(err, ErrShortCodeSpaceExhausted)
}

func IsUpdateFieldsRequired(err error) bool {
	return errors.Is(err, ErrUpdateFieldsRequired)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}
