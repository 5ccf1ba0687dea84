package gateway

import (
	"time"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
)

// EventType identifies the kind of event occurring during gateway operations.
type EventType string

const (
	// EventRequestStart fires after a request passes validation.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after a request produces a result.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when a request fails.
	EventRequestError EventType = "request_error"

	// EventRetry fires for every chain event (forwarded from the executor).
	EventRetry EventType = "retry"
)

// Operation names carried by events.
const (
	OperationGenerate = "generate"
	OperationStream   = "generate_stream"
)

// Event represents an observable occurrence during gateway operations.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// Operation is OperationGenerate or OperationStream.
	Operation string

	// RequestID correlates the event with log lines and the result.
	RequestID string

	// Model is the requested primary for start and error events and the
	// serving model for complete events.
	Model model.ID

	// Duration is the elapsed time for completed or failed requests.
	Duration time.Duration

	// Usage and Cost are set for EventRequestComplete.
	Usage *gengate.Usage
	Cost  float64

	// Error contains the error for EventRequestError.
	Error error

	// RetryEvent contains the underlying chain event for EventRetry.
	RetryEvent *RetryEvent

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
		// Channel full - don't block
	}
}
