package gengate

import (
	"errors"
	"iter"
)

// EventType tags a StreamEvent.
type EventType string

const (
	// EventChunk carries incremental text.
	EventChunk EventType = "chunk"
	// EventDone ends a successful stream and carries the final result.
	EventDone EventType = "done"
	// EventError ends a failed stream.
	EventError EventType = "error"
)

// StreamEvent is one element of a generation stream. Every stream ends with
// exactly one EventDone or EventError, and no EventChunk follows it.
type StreamEvent struct {
	Type EventType

	// Text is the delta for EventChunk and the full text for EventDone.
	Text string

	// Result is set for EventDone.
	Result *Result

	// Err is set for EventError.
	Err error
}

// Terminal reports whether e ends the stream.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// Message returns the error message of an EventError, or "".
func (e StreamEvent) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// ErrNoTerminalEvent is returned by Collect when a stream ends without a
// done or error event.
var ErrNoTerminalEvent = errors.New("stream ended without a terminal event")

// Collect drains events, calling onChunk for every chunk, and returns the
// final result or the stream's error. onChunk may be nil.
func Collect(events iter.Seq[StreamEvent], onChunk func(text string)) (*Result, error) {
	for ev := range events {
		switch ev.Type {
		case EventChunk:
			if onChunk != nil {
				onChunk(ev.Text)
			}
		case EventDone:
			return ev.Result, nil
		case EventError:
			return nil, ev.Err
		}
	}
	return nil, ErrNoTerminalEvent
}
