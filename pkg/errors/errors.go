// Package errors provides structured error types for the formwork document engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the core packages and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Enough context (element ID, property) to build a user-facing message
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes fall into a few categories:
//   - VALIDATION_FAILED, INDEX_OUT_OF_RANGE: structural invariant violations,
//     always recoverable by fixing the offending value
//   - UNKNOWN_VARIANT, UNKNOWN_PROPERTY: a tag or property name the target does
//     not recognize; the failing call has no side effects
//   - COMMAND_REPLAY: an inverse action could not be applied because the
//     document was mutated outside the command engine
//   - INVALID_*, NOT_FOUND, INTERNAL_*: input and I/O failures
//
// # Usage
//
//	err := errors.Invalid(el.ID, "Opacity", "opacity %.2f outside [0,1]", v)
//	if errors.IsValidation(err) {
//	    // Fix the value and retry
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural validation errors
	ErrCodeValidation       Code = "VALIDATION_FAILED"
	ErrCodeIndexOutOfRange  Code = "INDEX_OUT_OF_RANGE"
	ErrCodeUnknownVariant   Code = "UNKNOWN_VARIANT"
	ErrCodeUnknownProperty  Code = "UNKNOWN_PROPERTY"
	ErrCodeInvalidValue     Code = "INVALID_VALUE"
	ErrCodeCommandReplay    Code = "COMMAND_REPLAY"
	ErrCodeDuplicateElement Code = "DUPLICATE_ELEMENT"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Subject string // ID of the element or template at fault (optional)
	Field   string // Property or invariant that was violated (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Subject != "" && e.Field != "" {
		msg = fmt.Sprintf("%s.%s: %s", e.Subject, e.Field, msg)
	} else if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s", e.Subject, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// With sets the subject and field of e and returns it.
func (e *Error) With(subject, field string) *Error {
	e.Subject = subject
	e.Field = field
	return e
}

// Invalid creates a VALIDATION_FAILED error naming the subject and field.
func Invalid(subject, field, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
		Subject: subject,
		Field:   field,
	}
}

// OutOfRange creates an INDEX_OUT_OF_RANGE error naming the subject and field.
func OutOfRange(subject, field string, index, limit int) *Error {
	return &Error{
		Code:    ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf("index %d out of range [0,%d)", index, limit),
		Subject: subject,
		Field:   field,
	}
}

// UnknownVariant creates an UNKNOWN_VARIANT error for an unregistered tag.
func UnknownVariant(kind string) *Error {
	return &Error{
		Code:    ErrCodeUnknownVariant,
		Message: fmt.Sprintf("no such variant %q", kind),
		Field:   kind,
	}
}

// UnknownProperty creates an UNKNOWN_PROPERTY error for a property name
// the subject's variant does not recognize.
func UnknownProperty(subject, kind, name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownProperty,
		Message: fmt.Sprintf("variant %q has no property %q", kind, name),
		Subject: subject,
		Field:   name,
	}
}

// Replay creates a COMMAND_REPLAY error. These indicate the document was
// mutated outside the command engine and are not expected at runtime.
func Replay(label string, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeCommandReplay,
		Message: fmt.Sprintf(format, args...),
		Subject: label,
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsValidation reports whether err is a structural validation failure.
func IsValidation(err error) bool {
	return Is(err, ErrCodeValidation) || Is(err, ErrCodeIndexOutOfRange)
}

// IsUnknown reports whether err names an unrecognized variant or property.
func IsUnknown(err error) bool {
	return Is(err, ErrCodeUnknownVariant) || Is(err, ErrCodeUnknownProperty)
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Field != "" {
			return fmt.Sprintf("%s: %s", e.Field, e.Message)
		}
		return e.Message
	}
	return err.Error()
}

// Join aliases the standard library's errors.Join so callers importing this
// package under the name errors keep access to it.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// As aliases the standard library's errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
