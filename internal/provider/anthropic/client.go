package anthropic

import (
	"context"
	"iter"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
)

// APIKeyEnv is the environment variable holding the API key.
const APIKeyEnv = "ANTHROPIC_API_KEY"

const defaultMaxTokens = 4096

// Adapter wraps the Anthropic SDK to implement gengate.Adapter.
type Adapter struct {
	client    *anthropic.Client
	apiKey    string
	maxTokens int64
	logger    *zap.Logger
}

// Option configures the Anthropic adapter.
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

// New creates a new Anthropic adapter with the given API key. An empty key
// is accepted; calls then fail with a configuration error.
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

	// Retries are owned by the gateway executor.
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

	client := anthropic.NewClient(reqOpts...)
	return &Adapter{
		client:    &client,
		apiKey:    apiKey,
		maxTokens: int64(s.maxTokens),
		logger:    s.logger.With(zap.String("provider", model.FamilyAnthropic.String())),
	}
}

// Execute sends one non-streaming Messages request.
func (a *Adapter) Execute(ctx context.Context, req *gengate.Request) (*gengate.Completion, error) {
	if a.apiKey == "" {
		return nil, gengate.NewMissingKeyError(model.FamilyAnthropic, APIKeyEnv)
	}

	resp, err := a.client.Messages.New(ctx, a.buildParams(req))
	if err != nil {
		return nil, wrapError(err)
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	u := resp.Usage
	return &gengate.Completion{
		Text:  text,
		Usage: normalizeUsage(u.InputTokens, u.CacheCreationInputTokens, u.CacheReadInputTokens, u.OutputTokens),
	}, nil
}

// Stream sends one streaming Messages request. Input and cache counts arrive
// with message_start, output counts with message_delta.
func (a *Adapter) Stream(ctx context.Context, req *gengate.Request) iter.Seq2[gengate.Delta, error] {
	return func(yield func(gengate.Delta, error) bool) {
		if a.apiKey == "" {
			yield(gengate.Delta{}, gengate.NewMissingKeyError(model.FamilyAnthropic, APIKeyEnv))
			return
		}

		stream := a.client.Messages.NewStreaming(ctx, a.buildParams(req))
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()

			var delta gengate.Delta
			switch event.Type {
			case "message_start":
				u := event.AsMessageStart().Message.Usage
				delta.Usage = normalizeUsage(u.InputTokens, u.CacheCreationInputTokens, u.CacheReadInputTokens, u.OutputTokens)
			case "content_block_delta":
				textDelta := event.AsContentBlockDelta().Delta.AsTextDelta()
				if textDelta.Type != "text_delta" || textDelta.Text == "" {
					continue
				}
				delta.Text = textDelta.Text
			case "message_delta":
				u := event.AsMessageDelta().Usage
				delta.Usage = finalUsage(u.InputTokens, u.CacheCreationInputTokens, u.CacheReadInputTokens, u.OutputTokens)
			default:
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
