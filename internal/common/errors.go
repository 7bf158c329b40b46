// Package common defines shared sentinel errors used across the server and
// the CLI client. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level error kinds. Each maps to one HTTP status class.
	ErrorValidation      = errors.New("validation error")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorConflict        = errors.New("conflict")
	ErrorInternal        = errors.New("internal error")
	ErrorTooManyRequests = errors.New("too many requests")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// Error pairs an error kind with a client-facing message.
//
//	err := common.NewError(common.ErrorConflict, "User already exists")
//	errors.Is(err, common.ErrorConflict) // true
type Error struct {
	Kind    error
	Message string
	Cause   error
}

// NewError returns an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError returns an *Error of the given kind that keeps cause in the chain.
func WrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Kind, target) }
func (e *Error) Unwrap() error        { return e.Cause }

// MessageOf returns the client-facing message carried by err, or fallback
// when err is not a *common.Error.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
