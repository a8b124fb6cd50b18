package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryStorage Category = "storage"
	CategoryForm    Category = "form"
	CategoryCLI     Category = "cli"
)

// SignupError is a structured error with a code, an explanation and a hint.
type SignupError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SignupError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SignupError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a *SignupError with the same code.
func (e *SignupError) Is(target error) bool {
	t, ok := target.(*SignupError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *SignupError) WithSuggestion(s string) *SignupError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *SignupError) WithDetail(d string) *SignupError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *SignupError) WithDetailf(format string, args ...any) *SignupError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *SignupError) Wrap(err error) *SignupError {
	e.Wrapped = err
	if e.Detail == "" && err != nil {
		e.Detail = err.Error()
	}
	return e
}

// New creates a SignupError from a registered error code.
func New(code string) *SignupError {
	template, ok := registry[code]
	if !ok {
		return &SignupError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SignupError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new SignupError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *SignupError {
	return &SignupError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a SignupError.
// Errors that already are *SignupError are returned unchanged.
func FromError(err error, code string) *SignupError {
	if err == nil {
		return nil
	}
	var se *SignupError
	if errors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a SignupError with the given code.
func HasCode(err error, code string) bool {
	var se *SignupError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == code
}
