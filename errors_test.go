package gengate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spetersoncode/gengate/model"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("Error includes provider and cause", func(t *testing.T) {
		cause := errors.New("503 Service Unavailable")
		err := NewTransientError(model.FamilyOpenAI, "upstream unavailable", 503, cause)
		assert.Equal(t, "openai: upstream unavailable: 503 Service Unavailable", err.Error())
	})

	t.Run("Error does not repeat identical cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := &Error{Msg: "boom", Cat: ErrorTransient, Cause: cause}
		assert.Equal(t, "boom", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := NewNonRetryableError(model.FamilyAnthropic, "auth failed", 401, cause)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("categories", func(t *testing.T) {
		transient := NewTransientError(model.FamilyGoogle, "x", 500, nil)
		assert.True(t, transient.Retryable())
		assert.Equal(t, 500, transient.StatusCode())

		nonRetryable := NewNonRetryableError(model.FamilyGoogle, "x", 429, nil)
		assert.False(t, nonRetryable.Retryable())
		assert.Equal(t, ErrorNonRetryable, nonRetryable.Category())
	})
}

func TestCategoryHelpers(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		transient      bool
		nonRetryable   bool
		configuration  bool
		expectedStatus int
	}{
		{
			name:           "transient",
			err:            NewTransientError(model.FamilyOpenAI, "server error", 502, nil),
			transient:      true,
			expectedStatus: 502,
		},
		{
			name:           "wrapped non-retryable",
			err:            fmt.Errorf("call failed: %w", NewNonRetryableError(model.FamilyOpenAI, "quota", 429, nil)),
			nonRetryable:   true,
			expectedStatus: 429,
		},
		{
			name:          "configuration",
			err:           NewMissingKeyError(model.FamilyAnthropic, "ANTHROPIC_API_KEY"),
			configuration: true,
		},
		{
			name: "plain error",
			err:  errors.New("something"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, IsTransient(tt.err))
			assert.Equal(t, tt.nonRetryable, IsNonRetryable(tt.err))
			assert.Equal(t, tt.configuration, IsConfiguration(tt.err))
			assert.Equal(t, tt.expectedStatus, StatusCodeOf(tt.err))
		})
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewMissingKeyError(model.FamilyGoogle, "GEMINI_API_KEY_1")
	assert.Equal(t, "configuration error (google): no API key configured (set GEMINI_API_KEY_1)", err.Error())
	assert.False(t, err.Retryable())

	bare := &ConfigurationError{Msg: "empty pool"}
	assert.Equal(t, "configuration error: empty pool", bare.Error())
}

func TestExhaustedChainError(t *testing.T) {
	last := errors.New("503 overloaded")
	err := &ExhaustedChainError{
		Models:   []model.ID{model.ClaudeHaiku45, model.GPT4oMini},
		Attempts: 6,
		Last:     last,
	}

	assert.Equal(t, "all models failed after 6 attempts (tried claude-haiku-4.5, gpt-4o-mini): 503 overloaded", err.Error())
	assert.True(t, errors.Is(err, last))

	var target *ExhaustedChainError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Len(t, target.Models, 2)
}

func TestErrInvalidRequest(t *testing.T) {
	err := fmt.Errorf("%w: missing user", ErrInvalidRequest)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}
