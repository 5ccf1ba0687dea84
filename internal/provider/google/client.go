// Package google implements gengate.Adapter on top of the Google GenAI SDK
// (Gemini API backend).
//
// Gemini free and paid tiers are rate limited per API key, so the adapter
// draws a key from a [keypool.Pool] on every call. One genai.Client is built
// per key on first use and reused afterwards.
package google

import (
	"context"
	"iter"
	"net/http"
	"sync"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/keypool"
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// APIKeyEnv is the prefix of the numbered environment variables holding the
// pooled API keys (GEMINI_API_KEY_1 .. GEMINI_API_KEY_9).
const APIKeyEnv = "GEMINI_API_KEY"

// MaxPooledKeys is the highest key number read from the environment.
const MaxPooledKeys = 9

const defaultMaxTokens = 4096

// Adapter wraps the Google GenAI SDK to implement gengate.Adapter.
type Adapter struct {
	pool      *keypool.Pool
	baseURL   string
	http      *http.Client
	maxTokens int32
	logger    *zap.Logger

	mu      sync.RWMutex
	clients map[int]*genai.Client
}

// Option configures the Google adapter.
type Option func(*Adapter)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(a *Adapter) {
		a.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) {
		a.http = c
	}
}

// WithMaxTokens sets the output limit used when a request leaves it unset.
func WithMaxTokens(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.maxTokens = int32(n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates a Google adapter drawing keys from pool. A nil or empty pool
// is accepted; calls then fail with a configuration error.
func New(pool *keypool.Pool, opts ...Option) *Adapter {
	if pool == nil {
		pool = keypool.New(nil, keypool.WithProvider(model.FamilyGoogle))
	}
	a := &Adapter{
		pool:      pool,
		maxTokens: defaultMaxTokens,
		logger:    zap.NewNop(),
		clients:   make(map[int]*genai.Client),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(zap.String("provider", model.FamilyGoogle.String()))
	return a
}

// Pool returns the key rotation pool.
func (a *Adapter) Pool() *keypool.Pool {
	return a.pool
}

// client returns the genai client for the next pooled credential.
func (a *Adapter) client(ctx context.Context) (*genai.Client, error) {
	if a.pool.Len() == 0 {
		return nil, gengate.NewMissingKeyError(model.FamilyGoogle, APIKeyEnv+"_1")
	}
	cred, err := a.pool.Next()
	if err != nil {
		return nil, err
	}

	// Fast path: check if already initialized
	a.mu.RLock()
	c, ok := a.clients[cred.Index]
	a.mu.RUnlock()
	if ok {
		return c, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if c, ok := a.clients[cred.Index]; ok {
		return c, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     cred.Secret(),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: a.http,
	}
	if a.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: a.baseURL}
	}
	c, err = genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &gengate.ConfigurationError{Provider: model.FamilyGoogle, Msg: "create client for " + cred.String() + ": " + err.Error()}
	}

	a.logger.Debug("created client", zap.Stringer("credential", cred))
	a.clients[cred.Index] = c
	return c, nil
}

// Execute sends one non-streaming GenerateContent request.
func (a *Adapter) Execute(ctx context.Context, req *gengate.Request) (*gengate.Completion, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(ctx, WireModel(req.Model, a.logger), buildPrompt(req), a.buildConfig(req))
	if err != nil {
		return nil, wrapError(err)
	}

	return &gengate.Completion{
		Text:  textOf(resp),
		Usage: usageFrom(resp.UsageMetadata),
	}, nil
}

// Stream sends one streaming GenerateContent request. Usage metadata is
// cumulative and usually complete only on the last response.
func (a *Adapter) Stream(ctx context.Context, req *gengate.Request) iter.Seq2[gengate.Delta, error] {
	return func(yield func(gengate.Delta, error) bool) {
		client, err := a.client(ctx)
		if err != nil {
			yield(gengate.Delta{}, err)
			return
		}

		responses := client.Models.GenerateContentStream(ctx, WireModel(req.Model, a.logger), buildPrompt(req), a.buildConfig(req))
		for resp, err := range responses {
			if err != nil {
				yield(gengate.Delta{}, wrapError(err))
				return
			}

			delta := gengate.Delta{
				Text:  textOf(resp),
				Usage: usageFrom(resp.UsageMetadata),
			}
			if delta.Text == "" && delta.Usage == (gengate.Usage{}) {
				continue
			}
			if !yield(delta, nil) {
				return
			}
		}
	}
}

var _ gengate.Adapter = (*Adapter)(nil)
