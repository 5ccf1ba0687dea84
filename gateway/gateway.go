// Package gateway is the entry point for text generation. A Gateway turns a
// [gengate.Request] into provider calls, walking the request's model chain
// with retries and fallback, and prices the result by the model that
// actually served it.
//
// Build one Gateway at process start and share it:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	gw := gateway.NewFromConfig(cfg, gateway.WithLogger(logger))
//	res, err := gw.Generate(ctx, &gengate.Request{
//	    Model:     model.ClaudeHaiku45,
//	    Fallbacks: []model.ID{model.GPT4oMini},
//	    User:      "Write a tagline.",
//	})
//
// A Gateway is safe for concurrent use.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/config"
	"github.com/spetersoncode/gengate/cost"
	"github.com/spetersoncode/gengate/internal/provider/anthropic"
	"github.com/spetersoncode/gengate/internal/provider/google"
	"github.com/spetersoncode/gengate/internal/provider/openai"
	"github.com/spetersoncode/gengate/internal/retry"
	"github.com/spetersoncode/gengate/keypool"
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for creating a Gateway.
type Config struct {
	// Adapters maps each provider family to its adapter. Requests naming a
	// model whose family has no adapter fail with a configuration error.
	Adapters map[model.Family]gengate.Adapter

	// Retry configures backoff and the default per-model retry budget.
	// If nil, uses DefaultRetryConfig.
	Retry *RetryConfig

	// Logger receives structured logs. If nil, logging is disabled.
	Logger *zap.Logger

	// Events is an optional channel for receiving gateway events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event

	// BatchConcurrency caps concurrent requests in BatchGenerate.
	// 0 means unlimited.
	BatchConcurrency int
}

// Gateway executes generation requests.
type Gateway struct {
	adapters   map[model.Family]gengate.Adapter
	exec       retry.Executor
	retries    int
	accountant *cost.Accountant
	logger     *zap.Logger
	events     chan<- Event
	batchLimit int
}

// New creates a Gateway with the given configuration.
func New(cfg Config) *Gateway {
	retryConfig := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryConfig = *cfg.Retry
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	adapters := make(map[model.Family]gengate.Adapter, len(cfg.Adapters))
	for f, a := range cfg.Adapters {
		if a != nil {
			adapters[f] = a
		}
	}

	return &Gateway{
		adapters:   adapters,
		exec:       retry.NewExecutor(retryConfig, logger, nil),
		retries:    max(retryConfig.MaxRetries, 0),
		accountant: cost.NewAccountant(logger),
		logger:     logger,
		events:     cfg.Events,
		batchLimit: cfg.BatchConcurrency,
	}
}

// Option adjusts the Config built by NewFromConfig.
type Option func(*Config)

// WithLogger sets the logger used by the gateway and its adapters.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithEvents sets the event channel.
func WithEvents(ch chan<- Event) Option {
	return func(c *Config) {
		c.Events = ch
	}
}

// WithAdapter replaces the adapter for one family.
func WithAdapter(f model.Family, a gengate.Adapter) Option {
	return func(c *Config) {
		c.Adapters[f] = a
	}
}

// NewFromConfig creates a Gateway with the three SDK-backed adapters built
// from loaded settings. Missing keys are reported when a model of that
// family is called, not here.
func NewFromConfig(settings *config.Config, opts ...Option) *Gateway {
	cfg := Config{
		Adapters:         make(map[model.Family]gengate.Adapter, 3),
		BatchConcurrency: settings.BatchConcurrency,
	}
	retryConfig := retry.DefaultConfig()
	retryConfig.InitialDelay = settings.Retry.InitialDelay
	retryConfig.MaxDelay = settings.Retry.MaxDelay
	retryConfig.MaxRetries = settings.Retry.MaxRetries
	cfg.Retry = &retryConfig

	// Options may set the logger, which the adapters need.
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, ok := cfg.Adapters[model.FamilyAnthropic]; !ok {
		cfg.Adapters[model.FamilyAnthropic] = anthropic.New(settings.AnthropicKey,
			anthropic.WithMaxTokens(settings.MaxTokens),
			anthropic.WithLogger(logger),
		)
	}
	if _, ok := cfg.Adapters[model.FamilyOpenAI]; !ok {
		cfg.Adapters[model.FamilyOpenAI] = openai.New(settings.OpenAIKey,
			openai.WithMaxTokens(settings.MaxTokens),
			openai.WithLogger(logger),
		)
	}
	if _, ok := cfg.Adapters[model.FamilyGoogle]; !ok {
		pool := keypool.New(settings.GeminiKeys, keypool.WithProvider(model.FamilyGoogle))
		cfg.Adapters[model.FamilyGoogle] = google.New(pool,
			google.WithMaxTokens(settings.MaxTokens),
			google.WithLogger(logger),
		)
	}

	return New(cfg)
}

// Generate executes req across its model chain and returns the priced result.
//
// The error is one of: an error wrapping gengate.ErrInvalidRequest, a
// *gengate.ConfigurationError, a *gengate.ExhaustedChainError, or ctx.Err().
func (g *Gateway) Generate(ctx context.Context, req *gengate.Request) (*gengate.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := g.logger.With(zap.String("request_id", requestID))
	start := time.Now()

	emit(g.events, Event{
		Type:      EventRequestStart,
		Operation: OperationGenerate,
		RequestID: requestID,
		Model:     req.Model,
	})
	logger.Debug("generation started",
		zap.String("model", req.Model.String()),
		zap.Int("fallbacks", len(req.Fallbacks)),
	)

	exec := g.exec.With(logger)
	exec.Observe = func(ev retry.Event) {
		emit(g.events, Event{
			Type:       EventRetry,
			Operation:  OperationGenerate,
			RequestID:  requestID,
			Model:      ev.Model,
			RetryEvent: &ev,
		})
	}

	completion, outcome, err := retry.Execute(ctx, exec, req.Chain(), req.RetryBudget(g.retries),
		func(ctx context.Context, id model.ID) (*gengate.Completion, error) {
			adapter, err := g.adapterFor(id)
			if err != nil {
				return nil, err
			}
			return adapter.Execute(ctx, req.WithModel(id))
		})
	if err != nil {
		logger.Error("generation failed",
			zap.String("model", req.Model.String()),
			zap.Int("attempts", outcome.Attempts),
			zap.Error(err),
		)
		emit(g.events, Event{
			Type:      EventRequestError,
			Operation: OperationGenerate,
			RequestID: requestID,
			Model:     req.Model,
			Duration:  time.Since(start),
			Error:     err,
		})
		return nil, err
	}

	res := g.finalize(requestID, outcome.Model, completion.Text, completion.Usage, time.Since(start), outcome.Attempts)
	g.complete(logger, OperationGenerate, res)
	return res, nil
}

// BatchGenerate runs every request concurrently. The batch is all or
// nothing: the first failure cancels the remaining requests and no results
// are returned. Results are in request order.
func (g *Gateway) BatchGenerate(ctx context.Context, reqs []*gengate.Request) ([]*gengate.Result, error) {
	for i, req := range reqs {
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("batch request %d: %w", i, err)
		}
	}

	results := make([]*gengate.Result, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	if g.batchLimit > 0 {
		eg.SetLimit(g.batchLimit)
	}
	for i, req := range reqs {
		eg.Go(func() error {
			res, err := g.Generate(ctx, req)
			if err != nil {
				return fmt.Errorf("batch request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		g.logger.Warn("batch failed", zap.Int("size", len(reqs)), zap.Error(err))
		return nil, err
	}
	return results, nil
}

// poolOwner is implemented by adapters that rotate keys.
type poolOwner interface {
	Pool() *keypool.Pool
}

// PoolStats returns a snapshot of every key rotation pool, by family.
func (g *Gateway) PoolStats() map[model.Family]keypool.Stats {
	stats := make(map[model.Family]keypool.Stats)
	for f, a := range g.adapters {
		if p, ok := a.(poolOwner); ok && p.Pool() != nil {
			stats[f] = p.Pool().Stats()
		}
	}
	return stats
}

// adapterFor returns the adapter serving id's family.
func (g *Gateway) adapterFor(id model.ID) (gengate.Adapter, error) {
	family := id.Family()
	a, ok := g.adapters[family]
	if !ok {
		return nil, &gengate.ConfigurationError{
			Provider: family,
			Msg:      fmt.Sprintf("no adapter registered for model %s", id),
		}
	}
	return a, nil
}

// finalize builds the result and prices it by the serving model.
func (g *Gateway) finalize(requestID string, id model.ID, text string, usage gengate.Usage, elapsed time.Duration, attempts int) *gengate.Result {
	price := g.accountant.Price(id, usage)
	if price < 0 {
		price = 0
	}
	return &gengate.Result{
		RequestID:        requestID,
		Text:             text,
		TokensUsed:       usage.Total(),
		InputTokens:      usage.InputTokens,
		OutputTokens:     usage.OutputTokens,
		CacheWriteTokens: usage.CacheWriteTokens,
		CacheReadTokens:  usage.CacheReadTokens,
		Model:            id,
		Cost:             price,
		Duration:         elapsed,
		Attempts:         attempts,
	}
}

func (g *Gateway) complete(logger *zap.Logger, op string, res *gengate.Result) {
	usage := res.Usage()
	logger.Info("generation complete",
		zap.String("operation", op),
		zap.String("model", res.Model.String()),
		zap.Int("attempts", res.Attempts),
		zap.Int("input_tokens", res.InputTokens),
		zap.Int("output_tokens", res.OutputTokens),
		zap.Int("cache_read_tokens", res.CacheReadTokens),
		zap.Float64("cost", res.Cost),
		zap.Duration("duration", res.Duration),
	)
	emit(g.events, Event{
		Type:      EventRequestComplete,
		Operation: op,
		RequestID: res.RequestID,
		Model:     res.Model,
		Duration:  res.Duration,
		Usage:     &usage,
		Cost:      res.Cost,
	})
}
