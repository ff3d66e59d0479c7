package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the failure taxonomy surfaced to callers.
type ErrorKind string

const (
	KindUnauthorized  ErrorKind = "Unauthorized"
	KindNoCredential  ErrorKind = "NoCredential"
	KindBadRequest    ErrorKind = "BadRequest"
	KindRefreshFailed ErrorKind = "RefreshFailed"
	KindProviderError ErrorKind = "ProviderError"
	KindInternal      ErrorKind = "InternalError"
)

// Error is a failure with a kind the HTTP layer can map to a status code.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// BadRequest builds a BadRequest error.
func BadRequest(message string) *Error {
	return newError(KindBadRequest, message, nil)
}

// Unauthorized builds an Unauthorized error.
func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, message, nil)
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
