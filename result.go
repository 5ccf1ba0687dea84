package gengate

import (
	"time"

	"github.com/spetersoncode/gengate/model"
)

// Usage contains token counts reported by a provider.
//
// InputTokens is the total prompt size and includes CacheWriteTokens and
// CacheReadTokens; adapters normalize providers that report them separately.
type Usage struct {
	InputTokens      int `json:"inputTokens"`
	OutputTokens     int `json:"outputTokens"`
	CacheWriteTokens int `json:"cacheWriteTokens,omitempty"`
	CacheReadTokens  int `json:"cacheReadTokens,omitempty"`
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// HasCache returns true if the provider reported any prompt-cache activity.
func (u Usage) HasCache() bool {
	return u.CacheWriteTokens > 0 || u.CacheReadTokens > 0
}

// Regular returns the input tokens billed at the standard rate.
func (u Usage) Regular() int {
	n := u.InputTokens - u.CacheWriteTokens - u.CacheReadTokens
	if n < 0 {
		return 0
	}
	return n
}

// Merge overwrites each count in u with the corresponding count in o when
// the latter is non-zero. Providers report cumulative counts, some only at
// stream start and some only at stream end.
func (u *Usage) Merge(o Usage) {
	if o.InputTokens > 0 {
		u.InputTokens = o.InputTokens
	}
	if o.OutputTokens > 0 {
		u.OutputTokens = o.OutputTokens
	}
	if o.CacheWriteTokens > 0 {
		u.CacheWriteTokens = o.CacheWriteTokens
	}
	if o.CacheReadTokens > 0 {
		u.CacheReadTokens = o.CacheReadTokens
	}
}

// Completion is the normalized output of a non-streaming adapter call.
type Completion struct {
	Text  string
	Usage Usage
}

// Delta is one unit of an adapter stream. Text may be empty when the unit
// only carries usage counts.
type Delta struct {
	Text  string
	Usage Usage
}

// Result is the outcome of a successful generation.
type Result struct {
	// RequestID correlates the result with log lines and events.
	RequestID string `json:"requestId"`

	Text             string `json:"text"`
	TokensUsed       int    `json:"tokensUsed"`
	InputTokens      int    `json:"inputTokens"`
	OutputTokens     int    `json:"outputTokens"`
	CacheWriteTokens int    `json:"cacheWriteTokens,omitempty"`
	CacheReadTokens  int    `json:"cacheReadTokens,omitempty"`

	// Model is the model that produced the text. After fallback it differs
	// from the requested primary.
	Model model.ID `json:"model"`

	// Cost is the USD cost computed from Model's pricing.
	Cost float64 `json:"cost"`

	Duration time.Duration `json:"duration"`

	// Attempts is the number of provider calls made, including failures.
	Attempts int `json:"attempts"`
}

// Usage returns the token counts carried by r.
func (r *Result) Usage() Usage {
	return Usage{
		InputTokens:      r.InputTokens,
		OutputTokens:     r.OutputTokens,
		CacheWriteTokens: r.CacheWriteTokens,
		CacheReadTokens:  r.CacheReadTokens,
	}
}
