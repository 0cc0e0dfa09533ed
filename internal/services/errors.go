package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Match them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnavailable     = errors.New("service unavailable")
)

// Error carries a caller-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func invalidArgument(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func unavailable(message string) error {
	return &Error{Kind: ErrUnavailable, Message: message}
}
