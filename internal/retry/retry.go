package retry

import (
	"context"
	"errors"
	"time"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
)

var errEmptyChain = errors.New("empty model chain")

// Executor drives a model chain through an attempt function. The zero value
// is not usable; build one with NewExecutor. An Executor holds no state
// between calls and is safe for concurrent use.
type Executor struct {
	Config Config
	Logger *zap.Logger

	// Observe, when set, receives every chain event synchronously.
	Observe func(Event)
}

// NewExecutor returns an Executor with the given configuration.
func NewExecutor(cfg Config, logger *zap.Logger, observe func(Event)) Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Executor{Config: cfg, Logger: logger, Observe: observe}
}

// With returns a copy of e that logs through logger.
func (e Executor) With(logger *zap.Logger) Executor {
	e.Logger = logger
	return e
}

// Outcome describes how a successful chain execution ended.
type Outcome struct {
	// Model is the model that produced the result.
	Model model.ID
	// Attempts counts every call to fn across all models.
	Attempts int
}

// Execute calls fn for each model in chain until one succeeds.
//
// Each model gets retries+1 attempts. A transient or unclassified failure
// sleeps Config.Delay(attempt) and retries the same model; a non-retryable
// failure moves straight to the next model; a configuration failure is
// returned as is. When every model fails the error is an
// *gengate.ExhaustedChainError naming the models tried and the last failure.
// Cancelling ctx stops the loop, including during a backoff sleep, and
// returns ctx.Err().
func Execute[T any](ctx context.Context, e Executor, chain []model.ID, retries int, fn func(ctx context.Context, id model.ID) (T, error)) (T, Outcome, error) {
	var zero T
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if retries < 0 {
		retries = 0
	}
	maxAttempts := retries + 1

	var (
		lastErr  error
		attempts int
		tried    []model.ID
	)

	if len(chain) == 0 {
		return zero, Outcome{}, &gengate.ExhaustedChainError{Last: errEmptyChain}
	}

	for i, id := range chain {
		tried = append(tried, id)

		for attempt := 0; attempt < maxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return zero, Outcome{Attempts: attempts}, err
			}

			attempts++
			e.emit(Event{Type: EventAttemptStart, Model: id, Attempt: attempt + 1, MaxAttempts: maxAttempts})

			result, err := fn(ctx, id)
			if err == nil {
				e.emit(Event{Type: EventSuccess, Model: id, Attempt: attempt + 1, MaxAttempts: maxAttempts})
				return result, Outcome{Model: id, Attempts: attempts}, nil
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, Outcome{Attempts: attempts}, ctxErr
			}

			lastErr = err
			class := Classify(err)

			e.Logger.Warn("attempt failed",
				zap.String("model", id.String()),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", maxAttempts),
				zap.String("class", string(class)),
				zap.Error(err),
			)
			e.emit(Event{
				Type:        EventAttemptFailed,
				Model:       id,
				Attempt:     attempt + 1,
				MaxAttempts: maxAttempts,
				Error:       err,
				Class:       class,
			})

			if class == ClassConfiguration {
				return zero, Outcome{Attempts: attempts}, err
			}
			if !class.Retryable() {
				break
			}

			// Don't sleep after the last attempt on this model
			if attempt < maxAttempts-1 {
				delay := e.Config.Delay(attempt)
				e.emit(Event{
					Type:        EventRetrying,
					Model:       id,
					Attempt:     attempt + 1,
					MaxAttempts: maxAttempts,
					Delay:       delay,
				})
				if err := sleep(ctx, delay); err != nil {
					return zero, Outcome{Attempts: attempts}, err
				}
			}
		}

		if i < len(chain)-1 {
			next := chain[i+1]
			e.Logger.Info("falling back",
				zap.String("from", id.String()),
				zap.String("to", next.String()),
			)
			e.emit(Event{Type: EventFallback, Model: id, Next: next, Error: lastErr})
		}
	}

	e.emit(Event{Type: EventExhausted, Error: lastErr})
	return zero, Outcome{Attempts: attempts}, &gengate.ExhaustedChainError{
		Models:   tried,
		Attempts: attempts,
		Last:     lastErr,
	}
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
