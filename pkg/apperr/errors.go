// Package apperr defines the error kinds returned by the shop core and the
// helpers used to inspect them.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes
const (
	EUnauthorized = "unauthorized"
	EForbidden    = "forbidden"
	EInvalid      = "invalid"
	EConflict     = "conflict"
	ENotFound     = "not found"
	EInternal     = "internal error"
)

// Violation is one failed field rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type returned by core operations. Code is one of the
// constants above; Msg is safe to show to API clients; Op and Err describe
// the failing operation for logs.
type Error struct {
	Code       string
	Msg        string
	Op         string
	Err        error
	Violations []Violation
}

// Error implements the error interface by writing out the recursive messages.
func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		var b strings.Builder
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
		return b.String()
	} else if e.Msg != "" {
		return e.Msg
	} else if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the root error, if available; otherwise returns EInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return EInternal
}

// ErrorMessage returns the client-facing message of the first *Error in the chain.
func ErrorMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "An internal error has occurred."
}

// ErrorOp returns the operation of the first *Error in the chain that names one.
func ErrorOp(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Op != "" {
			return e.Op
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// ViolationsOf returns the field violations carried by err, if any.
func ViolationsOf(err error) []Violation {
	var e *Error
	if errors.As(err, &e) {
		return e.Violations
	}
	return nil
}

func Unauthorized(msg string) *Error {
	return &Error{Code: EUnauthorized, Msg: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: EForbidden, Msg: msg}
}

func Invalid(msg string) *Error {
	return &Error{Code: EInvalid, Msg: msg}
}

// ValidationFailed wraps all violations found for one request.
func ValidationFailed(violations []Violation) *Error {
	return &Error{Code: EInvalid, Msg: "Validation failed", Violations: violations}
}

func Conflict(msg string) *Error {
	return &Error{Code: EConflict, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: ENotFound, Msg: msg}
}

// Internal reports a failure of a backing collaborator during op.
func Internal(op string, err error) *Error {
	return &Error{Code: EInternal, Op: op, Err: err}
}
