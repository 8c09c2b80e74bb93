// Package svcerr defines the error taxonomy shared by the service layer.
package svcerr

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure for the transport layer.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindForbidden   Kind = "forbidden"
	KindBadRequest  Kind = "bad_request"
	KindPersistence Kind = "persistence"
)

var (
	// ErrNotFound matches errors for referenced users or articles that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden matches errors for author-scoped operations on another author's article.
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest matches errors for unknown actions or missing required fields.
	ErrBadRequest = errors.New("bad request")
	// ErrPersistence matches errors raised by the store.
	ErrPersistence = errors.New("persistence failure")
)

// Error is a coded service error. The code has the form "<operation>.<reason>".
type Error struct {
	kind Kind
	code string
	err  error
}

// New builds a coded error for the operation and reason.
func New(kind Kind, operation, reason string, cause error) error {
	return &Error{
		kind: kind,
		code: fmt.Sprintf("%s.%s", operation, reason),
		err:  cause,
	}
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the "<operation>.<reason>" identifier.
func (e *Error) Code() string {
	return e.code
}

// Kind returns the failure class.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is lets errors.Is match the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.kind == KindNotFound
	case ErrForbidden:
		return e.kind == KindForbidden
	case ErrBadRequest:
		return e.kind == KindBadRequest
	case ErrPersistence:
		return e.kind == KindPersistence
	default:
		return false
	}
}

// KindOf reports the kind of err. Errors outside the taxonomy are treated as persistence failures.
func KindOf(err error) Kind {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.kind
	}
	return KindPersistence
}

// CodeOf reports the code of err, or an empty string for errors outside the taxonomy.
func CodeOf(err error) string {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.code
	}
	return ""
}

// NotFound is shorthand for New(KindNotFound, ...).
func NotFound(operation, reason string, cause error) error {
	return New(KindNotFound, operation, reason, cause)
}

// Forbidden is shorthand for New(KindForbidden, ...).
func Forbidden(operation, reason string, cause error) error {
	return New(KindForbidden, operation, reason, cause)
}

// BadRequest is shorthand for New(KindBadRequest, ...).
func BadRequest(operation, reason string, cause error) error {
	return New(KindBadRequest, operation, reason, cause)
}

// Persistence is shorthand for New(KindPersistence, ...).
func Persistence(operation, reason string, cause error) error {
	return New(KindPersistence, operation, reason, cause)
}
