package google

import (
	"errors"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
	"google.golang.org/genai"
)

// wrapError wraps a Google GenAI SDK error with gengate error categorization.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely network error, handled by heuristics)
		return err
	}

	code := apiErr.Code
	msg := apiErr.Message
	if msg == "" {
		msg = err.Error()
	}

	switch categorize(apiErr, code) {
	case gengate.ErrorTransient:
		return gengate.NewTransientError(model.FamilyGoogle, msg, code, err)
	case gengate.ErrorNonRetryable:
		return gengate.NewNonRetryableError(model.FamilyGoogle, msg, code, err)
	default:
		return err
	}
}

// categorize determines the error category from the RPC status, the error
// reason in the details, and finally the HTTP status code.
func categorize(apiErr genai.APIError, code int) gengate.ErrorCategory {
	switch apiErr.Status {
	case "UNAUTHENTICATED", "PERMISSION_DENIED", "RESOURCE_EXHAUSTED":
		return gengate.ErrorNonRetryable
	case "UNAVAILABLE", "INTERNAL", "DEADLINE_EXCEEDED":
		return gengate.ErrorTransient
	}

	// An invalid key is reported as 400 INVALID_ARGUMENT with a reason.
	for _, detail := range apiErr.Details {
		if reason, _ := detail["reason"].(string); reason == "API_KEY_INVALID" {
			return gengate.ErrorNonRetryable
		}
	}

	switch {
	case code == 401 || code == 403 || code == 429:
		return gengate.ErrorNonRetryable // Auth failure or quota exhausted
	case code == 408 || (code >= 500 && code < 600):
		return gengate.ErrorTransient // Server error
	default:
		return ""
	}
}
