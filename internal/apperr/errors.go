// Package apperr is the error taxonomy returned across service boundaries.
// Every failure a handler can render is an *Error carrying a stable code and
// the HTTP status it maps to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	CodeUnknownProvider    = "UNKNOWN_PROVIDER"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeTransientIO        = "TRANSIENT_IO"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
)

type Error struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code, so errors.Is(err, apperr.ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is comparisons. Never return these directly; use the
// constructors so the message is specific.
var (
	ErrValidation         = &Error{Code: CodeValidation}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials}
	ErrDuplicateIdentity  = &Error{Code: CodeDuplicateIdentity}
	ErrUnknownProvider    = &Error{Code: CodeUnknownProvider}
	ErrInvalidTransition  = &Error{Code: CodeInvalidTransition}
	ErrTransientIO        = &Error{Code: CodeTransientIO}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized}
	ErrForbidden          = &Error{Code: CodeForbidden}
)

func Validation(message string, details map[string]any) *Error {
	return &Error{Code: CodeValidation, Message: message, HTTPStatus: http.StatusUnprocessableEntity, Details: details}
}

// Field is shorthand for a single-field validation failure.
func Field(field, message string) *Error {
	return Validation(message, map[string]any{field: message})
}

func InvalidCredentials() *Error {
	return &Error{Code: CodeInvalidCredentials, Message: "invalid email or password", HTTPStatus: http.StatusUnauthorized}
}

func DuplicateIdentity(email string) *Error {
	return &Error{
		Code:       CodeDuplicateIdentity,
		Message:    "an account with this email already exists",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"email": email},
	}
}

func UnknownProvider(id string) *Error {
	return &Error{
		Code:       CodeUnknownProvider,
		Message:    "pandit not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"pandit_id": id},
	}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("cannot move booking from %s to %s", from, to),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"from": from, "to": to},
	}
}

func Transient(message string, err error) *Error {
	return &Error{Code: CodeTransientIO, Message: message, HTTPStatus: http.StatusServiceUnavailable, Err: err}
}

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found", HTTPStatus: http.StatusNotFound}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

// As returns err as an *Error, wrapping anything unknown as transient I/O.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Transient("unexpected failure, please try again", err)
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
