package gengate

import (
	"context"
	"iter"
)

// Adapter is the capability every provider family implements. req.Model is
// the model to call; fallback and retry are the caller's concern.
type Adapter interface {
	// Execute performs one non-streaming call.
	Execute(ctx context.Context, req *Request) (*Completion, error)

	// Stream performs one streaming call. The sequence yields deltas as they
	// arrive and at most one non-nil error, after which it stops. Stopping
	// iteration early releases the underlying connection.
	Stream(ctx context.Context, req *Request) iter.Seq2[Delta, error]
}
