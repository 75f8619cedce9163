// Package apperr provides the typed errors surfaced by the catalog, admin,
// selection and spreadsheet layers.
package apperr

import (
	"errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeDuplicateName indicates an add with a name that already exists
	TypeDuplicateName Type = "DUPLICATE_NAME"

	// TypeNotFound indicates an update/remove of a missing entry
	TypeNotFound Type = "NOT_FOUND"

	// TypeAccessDenied indicates a department claim mismatch
	TypeAccessDenied Type = "ACCESS_DENIED"

	// TypeParse indicates a structurally unrecognized workbook
	TypeParse Type = "PARSE_ERROR"

	// TypeInvalidInput indicates malformed or out-of-range input
	TypeInvalidInput Type = "INVALID_INPUT"

	// TypeUnauthorized indicates failed or missing admin login
	TypeUnauthorized Type = "UNAUTHORIZED"
)

// Error represents a domain error with context
type Error struct {
	Type    Type           `json:"type"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...any) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// IsType reports whether err, or anything it wraps, is an *Error of type t.
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// TypeOf returns the Type of the first *Error in err's chain, or "".
func TypeOf(err error) Type {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// DuplicateName creates a duplicate-name error
func DuplicateName(kind, name string) *Error {
	return Newf(TypeDuplicateName, "%s already exists: %s", kind, name).WithContext("name", name)
}

// NotFound creates a not found error
func NotFound(kind, name string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", kind, name).WithContext("name", name)
}

// AccessDenied creates an access denied error
func AccessDenied(required, claim string) *Error {
	return Newf(TypeAccessDenied, "department %q may not modify %s entries", claim, required).
		WithContext("required", required)
}

// Parse creates a workbook parse error
func Parse(message string, cause error) *Error {
	return Wrap(TypeParse, message, cause)
}

// InvalidInput creates an input validation error
func InvalidInput(field, message string) *Error {
	return Newf(TypeInvalidInput, "%s: %s", field, message).WithContext("field", field)
}

// Unauthorized creates an authentication error
func Unauthorized(message string) *Error {
	return New(TypeUnauthorized, message)
}
