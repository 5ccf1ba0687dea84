package gengate

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spetersoncode/gengate/model"
)

// DefaultRetries is the per-model retry budget used when neither the request
// nor the gateway configuration sets one. A budget of r allows up to r+1
// attempts per model.
const DefaultRetries = 2

// OutputFormat selects the response shape requested from the provider.
type OutputFormat string

const (
	// FormatText requests plain text (the default).
	FormatText OutputFormat = "text"
	// FormatJSON requests a structured JSON object from providers that
	// support response-shape negotiation. The text is returned unparsed.
	FormatJSON OutputFormat = "json"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request describes one logical generation: a primary model, an ordered
// fallback chain, and the generation parameters shared by every attempt.
type Request struct {
	// Model is the primary logical model.
	Model model.ID `json:"model" validate:"required"`

	// System is the system prompt.
	System string `json:"system,omitempty"`

	// User is the user prompt.
	User string `json:"user" validate:"required"`

	// Temperature is the sampling temperature (0.0 to 2.0).
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens bounds the output length. Zero selects the adapter default.
	MaxTokens int `json:"maxTokens,omitempty" validate:"gte=0"`

	// Format is the desired output shape. Empty means FormatText.
	Format OutputFormat `json:"format,omitempty" validate:"omitempty,oneof=text json"`

	// Fallbacks are tried in order after Model is exhausted.
	Fallbacks []model.ID `json:"fallbacks,omitempty"`

	// CacheBlocks are stable context blocks eligible for prompt caching.
	// They are sent after the system prompt on every provider.
	CacheBlocks []string `json:"cacheBlocks,omitempty"`

	// MaxRetries is the per-model retry budget. Nil defers to the gateway's
	// configured budget.
	MaxRetries *int `json:"maxRetries,omitempty" validate:"omitempty,gte=0"`

	// DisableCache turns off prompt-cache markers for providers that support them.
	DisableCache bool `json:"disableCache,omitempty"`
}

// Retries returns a pointer to n for use as Request.MaxRetries.
func Retries(n int) *int {
	return &n
}

// RetryBudget returns the effective per-model retry budget: MaxRetries when
// set, else configured, else DefaultRetries when configured is negative.
func (r *Request) RetryBudget(configured int) int {
	if r.MaxRetries != nil {
		return *r.MaxRetries
	}
	if configured < 0 {
		return DefaultRetries
	}
	return configured
}

// CacheEnabled reports whether prompt-cache markers should be sent.
func (r *Request) CacheEnabled() bool {
	return !r.DisableCache
}

// WantsJSON reports whether a structured JSON response was requested.
func (r *Request) WantsJSON() bool {
	return r.Format == FormatJSON
}

// Chain returns the primary model followed by the fallbacks.
func (r *Request) Chain() []model.ID {
	chain := make([]model.ID, 0, 1+len(r.Fallbacks))
	chain = append(chain, r.Model)
	return append(chain, r.Fallbacks...)
}

// WithModel returns a shallow copy of r targeting id.
func (r *Request) WithModel(id model.ID) *Request {
	c := *r
	c.Model = id
	return &c
}

// Validate checks field ranges and that every model in the chain belongs to
// the enumeration. Errors wrap ErrInvalidRequest.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	for _, id := range r.Chain() {
		if !id.Valid() {
			return fmt.Errorf("%w: unknown model identifier %q", ErrInvalidRequest, id)
		}
	}
	return nil
}
