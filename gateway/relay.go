package gateway

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spetersoncode/gengate"
	"go.uber.org/zap"
)

// GenerateStream streams req.Model's output. Only the primary model is
// called, once: fallbacks and retries do not apply once text may have been
// shown to a user.
//
// The sequence yields an EventChunk per non-empty text delta and ends with
// exactly one EventDone or EventError. Stopping iteration early produces
// nothing further and releases the provider stream.
func (g *Gateway) GenerateStream(ctx context.Context, req *gengate.Request) iter.Seq[gengate.StreamEvent] {
	return func(yield func(gengate.StreamEvent) bool) {
		if err := req.Validate(); err != nil {
			yield(gengate.StreamEvent{Type: gengate.EventError, Err: err})
			return
		}

		requestID := uuid.NewString()
		logger := g.logger.With(zap.String("request_id", requestID))
		start := time.Now()

		fail := func(err error) {
			logger.Error("stream failed", zap.String("model", req.Model.String()), zap.Error(err))
			emit(g.events, Event{
				Type:      EventRequestError,
				Operation: OperationStream,
				RequestID: requestID,
				Model:     req.Model,
				Duration:  time.Since(start),
				Error:     err,
			})
			yield(gengate.StreamEvent{Type: gengate.EventError, Err: err})
		}

		emit(g.events, Event{
			Type:      EventRequestStart,
			Operation: OperationStream,
			RequestID: requestID,
			Model:     req.Model,
		})

		adapter, err := g.adapterFor(req.Model)
		if err != nil {
			fail(err)
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var (
			text  strings.Builder
			usage gengate.Usage
		)
		for delta, err := range adapter.Stream(ctx, req) {
			if err != nil {
				fail(err)
				return
			}
			usage.Merge(delta.Usage)
			if delta.Text == "" {
				continue
			}
			text.WriteString(delta.Text)
			if !yield(gengate.StreamEvent{Type: gengate.EventChunk, Text: delta.Text}) {
				logger.Debug("stream abandoned by consumer")
				return
			}
		}
		if err := ctx.Err(); err != nil {
			fail(err)
			return
		}

		res := g.finalize(requestID, req.Model, text.String(), usage, time.Since(start), 1)
		g.complete(logger, OperationStream, res)
		yield(gengate.StreamEvent{Type: gengate.EventDone, Text: res.Text, Result: res})
	}
}

// GenerateStreamFunc is the push-style form of GenerateStream: onChunk is
// called with each text delta and the final result or error is returned.
func (g *Gateway) GenerateStreamFunc(ctx context.Context, req *gengate.Request, onChunk func(text string)) (*gengate.Result, error) {
	return gengate.Collect(g.GenerateStream(ctx, req), onChunk)
}
