package retry

import (
	"time"

	"github.com/spetersoncode/gengate/model"
)

// EventType identifies the kind of event occurring during chain execution.
type EventType string

const (
	// EventAttemptStart fires before each attempt.
	EventAttemptStart EventType = "attempt_start"

	// EventAttemptFailed fires after a failed attempt.
	EventAttemptFailed EventType = "attempt_failed"

	// EventRetrying fires before sleeping between attempts on the same model.
	EventRetrying EventType = "retrying"

	// EventFallback fires when the executor moves to the next model.
	EventFallback EventType = "fallback"

	// EventSuccess fires when an attempt succeeds.
	EventSuccess EventType = "success"

	// EventExhausted fires when every model in the chain has failed.
	EventExhausted EventType = "exhausted"
)

// Event represents an observable occurrence during chain execution.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// Model is the model being attempted. For EventFallback it is the
	// model being abandoned and Next is the one tried next.
	Model model.ID
	Next  model.ID

	// Attempt is the attempt number on Model (1-indexed).
	Attempt int

	// MaxAttempts is the number of attempts allowed per model.
	MaxAttempts int

	// Error contains the error from a failed attempt.
	Error error

	// Class is the classification of Error.
	Class Class

	// Delay is the duration before the next attempt (for EventRetrying).
	Delay time.Duration

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit stamps the event and hands it to the observer, if any.
func (e Executor) emit(event Event) {
	if e.Observe == nil {
		return
	}
	event.Timestamp = time.Now()
	e.Observe(event)
}
