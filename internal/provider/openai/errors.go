package openai

import (
	"errors"

	"github.com/openai/openai-go"
	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
)

// wrapError wraps an OpenAI SDK error with gengate error categorization.
// It uses the structured error code when present and the HTTP status otherwise.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely network error, handled by heuristics)
		return err
	}

	code := apiErr.StatusCode
	msg := apiErr.Message
	if msg == "" {
		msg = err.Error()
	}

	switch categorize(apiErr.Code, apiErr.Type, code) {
	case gengate.ErrorTransient:
		return gengate.NewTransientError(model.FamilyOpenAI, msg, code, err)
	case gengate.ErrorNonRetryable:
		return gengate.NewNonRetryableError(model.FamilyOpenAI, msg, code, err)
	default:
		return err
	}
}

// categorize determines the error category from the error code and type,
// falling back to the HTTP status code.
func categorize(errCode, errType string, status int) gengate.ErrorCategory {
	switch errCode {
	case "invalid_api_key", "insufficient_quota", "rate_limit_exceeded":
		return gengate.ErrorNonRetryable
	}
	switch errType {
	case "insufficient_quota", "authentication_error", "permission_error":
		return gengate.ErrorNonRetryable
	case "server_error":
		return gengate.ErrorTransient
	}

	switch {
	case status == 401 || status == 403 || status == 429:
		return gengate.ErrorNonRetryable // Auth failure, rate limit or quota
	case status == 408 || (status >= 500 && status < 600):
		return gengate.ErrorTransient // Server error
	default:
		return ""
	}
}
