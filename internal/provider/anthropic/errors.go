package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
	"github.com/tidwall/gjson"
)

// wrapError wraps an Anthropic SDK error with gengate error categorization.
// The error body's error.type decides when present; the status code otherwise.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely network error, handled by heuristics)
		return err
	}

	code := apiErr.StatusCode
	errType := gjson.Get(apiErr.RawJSON(), "error.type").String()
	msg := gjson.Get(apiErr.RawJSON(), "error.message").String()
	if msg == "" {
		msg = err.Error()
	}

	switch categorize(errType, code) {
	case gengate.ErrorTransient:
		return gengate.NewTransientError(model.FamilyAnthropic, msg, code, err)
	case gengate.ErrorNonRetryable:
		return gengate.NewNonRetryableError(model.FamilyAnthropic, msg, code, err)
	default:
		return err
	}
}

// categorize determines the error category from the error type, falling
// back to the HTTP status code.
func categorize(errType string, code int) gengate.ErrorCategory {
	switch errType {
	case "authentication_error", "permission_error", "rate_limit_error", "billing_error":
		return gengate.ErrorNonRetryable
	case "overloaded_error", "api_error", "timeout_error":
		return gengate.ErrorTransient
	}

	switch {
	case code == 401 || code == 403 || code == 429:
		return gengate.ErrorNonRetryable
	case code == 408 || (code >= 500 && code < 600):
		return gengate.ErrorTransient // includes 529 overloaded
	default:
		return ""
	}
}
