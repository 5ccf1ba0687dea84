// Package openai implements gengate.Adapter on top of the official OpenAI Go
// SDK's Chat Completions API.
package openai

import (
	"context"
	"iter"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
)

// APIKeyEnv is the environment variable holding the API key.
const APIKeyEnv = "OPENAI_API_KEY"

const defaultMaxTokens = 4096

// Adapter wraps the OpenAI SDK to implement gengate.Adapter.
type Adapter struct {
	client    *openai.Client
	apiKey    string
	maxTokens int64
	logger    *zap.Logger
}

// Option configures the OpenAI adapter.
type Option func(*settings)

type settings struct {
	baseURL    string
	httpClient *http.Client
	maxTokens  int
	logger     *zap.Logger
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(s *settings) {
		s.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

// WithMaxTokens sets the output limit used when a request leaves it unset.
func WithMaxTokens(n int) Option {
	return func(s *settings) {
		s.maxTokens = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// New creates a new OpenAI adapter with the given API key. An empty key is
// accepted; calls then fail with a configuration error.
func New(apiKey string, opts ...Option) *Adapter {
	s := settings{maxTokens: defaultMaxTokens}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxTokens <= 0 {
		s.maxTokens = defaultMaxTokens
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if s.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(s.baseURL))
	}
	if s.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(s.httpClient))
	}

	client := openai.NewClient(reqOpts...)
	return &Adapter{
		client:    &client,
		apiKey:    apiKey,
		maxTokens: int64(s.maxTokens),
		logger:    s.logger.With(zap.String("provider", model.FamilyOpenAI.String())),
	}
}

// Execute sends one non-streaming chat completion request.
func (a *Adapter) Execute(ctx context.Context, req *gengate.Request) (*gengate.Completion, error) {
	if a.apiKey == "" {
		return nil, gengate.NewMissingKeyError(model.FamilyOpenAI, APIKeyEnv)
	}

	resp, err := a.client.Chat.Completions.New(ctx, a.buildParams(req))
	if err != nil {
		return nil, wrapError(err)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return &gengate.Completion{
		Text:  text,
		Usage: usageFrom(resp.Usage),
	}, nil
}

// Stream sends one streaming chat completion request. Usage arrives on the
// final chunk, which has no choices.
func (a *Adapter) Stream(ctx context.Context, req *gengate.Request) iter.Seq2[gengate.Delta, error] {
	return func(yield func(gengate.Delta, error) bool) {
		if a.apiKey == "" {
			yield(gengate.Delta{}, gengate.NewMissingKeyError(model.FamilyOpenAI, APIKeyEnv))
			return
		}

		params := a.buildParams(req)
		params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		}

		stream := a.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()

			var delta gengate.Delta
			if len(chunk.Choices) > 0 {
				delta.Text = chunk.Choices[0].Delta.Content
			}
			delta.Usage = usageFrom(chunk.Usage)

			if delta.Text == "" && delta.Usage == (gengate.Usage{}) {
				continue
			}
			if !yield(delta, nil) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			yield(gengate.Delta{}, wrapError(err))
		}
	}
}

var _ gengate.Adapter = (*Adapter)(nil)
