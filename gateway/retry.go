package gateway

import "github.com/spetersoncode/gengate/internal/retry"

// RetryConfig holds backoff and per-model retry settings.
type RetryConfig = retry.Config

// RetryEvent represents an observable occurrence during chain execution.
type RetryEvent = retry.Event

// RetryEventType identifies the kind of chain event.
type RetryEventType = retry.EventType

// Retry event type constants.
const (
	RetryEventAttemptStart  = retry.EventAttemptStart
	RetryEventAttemptFailed = retry.EventAttemptFailed
	RetryEventRetrying      = retry.EventRetrying
	RetryEventFallback      = retry.EventFallback
	RetryEventSuccess       = retry.EventSuccess
	RetryEventExhausted     = retry.EventExhausted
)

// DefaultRetryConfig returns the default retry configuration.
//   - 2 retries per model (3 attempts)
//   - 1 second initial delay
//   - 10 second max delay
//   - 2x exponential multiplier
//   - no jitter
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}
