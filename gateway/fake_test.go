package gateway

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
)

// fakeAdapter implements gengate.Adapter for testing.
type fakeAdapter struct {
	mu    sync.Mutex
	calls []model.ID

	// execute produces the outcome of each Execute call. Nil returns a
	// fixed completion.
	execute func(call int, req *gengate.Request) (*gengate.Completion, error)

	deltas    []gengate.Delta
	streamErr error
	streamCtx context.Context
	released  bool
}

func (f *fakeAdapter) Execute(ctx context.Context, req *gengate.Request) (*gengate.Completion, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Model)
	call := len(f.calls)
	fn := f.execute
	f.mu.Unlock()

	if fn == nil {
		return &gengate.Completion{Text: "ok", Usage: gengate.Usage{InputTokens: 10, OutputTokens: 5}}, nil
	}
	return fn(call, req)
}

func (f *fakeAdapter) Stream(ctx context.Context, req *gengate.Request) iter.Seq2[gengate.Delta, error] {
	return func(yield func(gengate.Delta, error) bool) {
		f.mu.Lock()
		f.calls = append(f.calls, req.Model)
		f.streamCtx = ctx
		f.mu.Unlock()
		defer func() {
			f.mu.Lock()
			f.released = true
			f.mu.Unlock()
		}()

		for _, d := range f.deltas {
			if !yield(d, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield(gengate.Delta{}, f.streamErr)
		}
	}
}

func (f *fakeAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAdapter) wasReleased() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

func alwaysFail(err error) func(int, *gengate.Request) (*gengate.Completion, error) {
	return func(int, *gengate.Request) (*gengate.Completion, error) {
		return nil, err
	}
}

func transient(family model.Family) error {
	return gengate.NewTransientError(family, "overloaded", 529, nil)
}

// fastRetry keeps backoff short enough for tests.
func fastRetry() *RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return &cfg
}

func newTestGateway(adapters map[model.Family]gengate.Adapter, events chan<- Event) *Gateway {
	return New(Config{
		Adapters: adapters,
		Retry:    fastRetry(),
		Events:   events,
	})
}
