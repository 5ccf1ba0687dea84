package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"

	"github.com/spetersoncode/gengate"
)

// Class is the executor's decision for a failed attempt.
type Class string

const (
	// ClassTransient retries the same model after a backoff.
	ClassTransient Class = "transient"
	// ClassNonRetryable abandons the model and moves down the chain.
	ClassNonRetryable Class = "non_retryable"
	// ClassConfiguration ends the call.
	ClassConfiguration Class = "configuration"
	// ClassUnclassified is handled like ClassTransient.
	ClassUnclassified Class = "unclassified"
)

// Retryable reports whether the same model should be tried again.
func (c Class) Retryable() bool {
	return c == ClassTransient || c == ClassUnclassified
}

// statusCoder is an interface for errors that have an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

// Classify decides how the executor reacts to err.
// It first checks if the error implements gengate.CategorizedError for explicit
// categorization. If not, it falls back to:
// - HTTP status codes (401/403/429 non-retryable, 408/5xx transient)
// - Network timeouts, refused and reset connections (transient)
func Classify(err error) Class {
	if err == nil {
		return ClassUnclassified
	}

	if cat, ok := gengate.CategoryOf(err); ok {
		switch cat {
		case gengate.ErrorTransient:
			return ClassTransient
		case gengate.ErrorNonRetryable:
			return ClassNonRetryable
		case gengate.ErrorConfiguration:
			return ClassConfiguration
		}
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if c := ClassifyStatus(sc.StatusCode()); c != ClassUnclassified {
			return c
		}
	}

	if isTransientNetworkError(err) {
		return ClassTransient
	}

	return ClassUnclassified
}

// ClassifyStatus maps an HTTP status code to a Class.
func ClassifyStatus(code int) Class {
	switch {
	case code == 401 || code == 403:
		return ClassNonRetryable // Authentication/authorization
	case code == 429:
		return ClassNonRetryable // Rate limited or quota exhausted
	case code == 408:
		return ClassTransient
	case code >= 500 && code < 600:
		return ClassTransient // Server error, includes 529 overloaded
	default:
		return ClassUnclassified
	}
}

// isTransientNetworkError checks for network-level transient errors.
func isTransientNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Check for timeout errors
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Check for URL errors (wrapping network errors)
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	// Check for syscall errors (connection reset, etc.)
	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNRESET, // Connection reset by peer
			syscall.ECONNREFUSED, // Connection refused
			syscall.ETIMEDOUT:    // Connection timed out
			return true
		}
	}

	return false
}
