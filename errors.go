package gengate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spetersoncode/gengate/model"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// ErrorCategory classifies errors by how the executor should react to them.
type ErrorCategory string

const (
	// ErrorTransient indicates a temporary failure; the same model is retried
	// with backoff. Examples: upstream 5xx, overload, connection timeouts.
	ErrorTransient ErrorCategory = "transient"

	// ErrorNonRetryable indicates the current model cannot succeed right now;
	// the executor abandons it and moves to the next fallback.
	// Examples: invalid API key, permission denied, rate limit or quota exhausted.
	ErrorNonRetryable ErrorCategory = "non_retryable"

	// ErrorConfiguration indicates missing or invalid local configuration.
	// It is fatal and ends the call.
	ErrorConfiguration ErrorCategory = "configuration"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool // convenience: returns true if Category == ErrorTransient
	StatusCode() int // HTTP status code if applicable, 0 otherwise
}

// Error is a categorized provider error.
type Error struct {
	Msg      string
	Cat      ErrorCategory
	Provider model.Family
	Code     int   // HTTP status code, 0 if not applicable
	Cause    error // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	msg := e.Msg
	if e.Provider != "" {
		msg = fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	if e.Cause != nil && e.Cause.Error() != e.Msg {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(provider model.Family, msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:      msg,
		Cat:      ErrorTransient,
		Provider: provider,
		Code:     statusCode,
		Cause:    cause,
	}
}

// NewNonRetryableError creates an error that abandons the current model.
func NewNonRetryableError(provider model.Family, msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:      msg,
		Cat:      ErrorNonRetryable,
		Provider: provider,
		Code:     statusCode,
		Cause:    cause,
	}
}

// ConfigurationError reports a missing or invalid credential.
type ConfigurationError struct {
	Provider model.Family
	Msg      string
}

func (e *ConfigurationError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("configuration error (%s): %s", e.Provider, e.Msg)
	}
	return "configuration error: " + e.Msg
}

// Category returns ErrorConfiguration.
func (e *ConfigurationError) Category() ErrorCategory { return ErrorConfiguration }

// Retryable returns false.
func (e *ConfigurationError) Retryable() bool { return false }

// StatusCode returns 0.
func (e *ConfigurationError) StatusCode() int { return 0 }

// NewMissingKeyError returns the ConfigurationError for a provider whose
// secret is absent.
func NewMissingKeyError(provider model.Family, envVar string) *ConfigurationError {
	return &ConfigurationError{
		Provider: provider,
		Msg:      fmt.Sprintf("no API key configured (set %s)", envVar),
	}
}

// ExhaustedChainError is returned when every model in the chain failed.
type ExhaustedChainError struct {
	// Models lists every model that was attempted, in order.
	Models []model.ID
	// Attempts is the total number of provider calls made.
	Attempts int
	// Last is the final underlying error.
	Last error
}

func (e *ExhaustedChainError) Error() string {
	names := make([]string, len(e.Models))
	for i, m := range e.Models {
		names[i] = string(m)
	}
	last := "<nil>"
	if e.Last != nil {
		last = e.Last.Error()
	}
	return fmt.Sprintf("all models failed after %d attempts (tried %s): %s",
		e.Attempts, strings.Join(names, ", "), last)
}

// Unwrap returns the final underlying error.
func (e *ExhaustedChainError) Unwrap() error {
	return e.Last
}

// CategoryOf returns the category of err, and false if err carries none.
func CategoryOf(err error) (ErrorCategory, bool) {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category(), true
	}
	return "", false
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	cat, ok := CategoryOf(err)
	return ok && cat == ErrorTransient
}

// IsNonRetryable returns true if the error is categorized as non-retryable.
func IsNonRetryable(err error) bool {
	cat, ok := CategoryOf(err)
	return ok && cat == ErrorNonRetryable
}

// IsConfiguration returns true if err is or wraps a configuration error.
func IsConfiguration(err error) bool {
	cat, ok := CategoryOf(err)
	return ok && cat == ErrorConfiguration
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}
