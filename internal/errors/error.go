package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryUsage    Category = "usage"
	CategoryConfig   Category = "config"
	CategoryProtocol Category = "protocol"
	CategoryCLI      Category = "cli"
)

// ErrNoProvider is matched by every usage error raised when a registry hook
// runs outside of its provider scope.
var ErrNoProvider = stderrors.New("registry: no provider in scope")

// RegistryError is a structured error with a code, hint and documentation link.
type RegistryError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RegistryError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RegistryError) WithSuggestion(s string) *RegistryError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RegistryError) WithDetail(d string) *RegistryError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *RegistryError) Wrap(err error) *RegistryError {
	e.Wrapped = err
	return e
}

// New creates a RegistryError from a registered error code.
func New(code string) *RegistryError {
	template, ok := registry[code]
	if !ok {
		return &RegistryError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RegistryError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
		Wrapped:    template.Sentinel,
	}
}

// Newf creates a new RegistryError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RegistryError {
	return &RegistryError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RegistryError.
func FromError(err error, code string) *RegistryError {
	if err == nil {
		return nil
	}
	var re *RegistryError
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// IsUsage reports whether err is a provider/scope usage violation.
func IsUsage(err error) bool {
	return stderrors.Is(err, ErrNoProvider)
}
