package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrMissingField       = errors.New("required field missing")
	ErrInvalidCredentials = errors.New("email or password is invalid")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided or are invalid")
	ErrTokenExpired       = errors.New("token is expired")
	ErrTokenRevoked       = errors.New("token is blacklisted")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrProjectNotFound    = errors.New("project not found")
	ErrUserNotFound       = errors.New("user not found")
)

// MissingFieldError matches ErrMissingField and carries a caller-facing message.
type MissingFieldError struct{ Msg string }

func (e *MissingFieldError) Error() string        { return e.Msg }
func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// ValidationError holds per-field messages that are safe to show to clients.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}
