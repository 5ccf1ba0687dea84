// Package cost prices generation results from token counts and the model
// pricing table.
//
// Two formulas exist. [Standard] bills input and output tokens at the model's
// prices. [Cached] is used when a provider reports prompt-cache activity:
// cache writes cost 1.25x the input price, cache reads 0.1x, and only the
// remaining input tokens are billed at the regular rate.
package cost

import (
	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
)

// Cache billing multipliers relative to the input price.
const (
	CacheWriteMultiplier = 1.25
	CacheReadMultiplier  = 0.1
)

// Breakdown itemizes a cost in USD.
type Breakdown struct {
	Regular    float64 `json:"regular"`
	CacheWrite float64 `json:"cacheWrite"`
	CacheRead  float64 `json:"cacheRead"`
	Output     float64 `json:"output"`
}

// Total returns the sum of all components.
func (b Breakdown) Total() float64 {
	return b.Regular + b.CacheWrite + b.CacheRead + b.Output
}

func per1K(tokens int, price float64) float64 {
	return float64(tokens) / 1000 * price
}

// Standard returns input/1000*inputPrice + output/1000*outputPrice.
func Standard(p model.Pricing, u gengate.Usage) float64 {
	return per1K(u.InputTokens, p.InputPer1K) + per1K(u.OutputTokens, p.OutputPer1K)
}

// Itemize returns the cache-aware breakdown. Cache write and read tokens are
// excluded from the regular bucket, so nothing is counted twice.
func Itemize(p model.Pricing, u gengate.Usage) Breakdown {
	return Breakdown{
		Regular:    per1K(u.Regular(), p.InputPer1K),
		CacheWrite: per1K(u.CacheWriteTokens, p.InputPer1K*CacheWriteMultiplier),
		CacheRead:  per1K(u.CacheReadTokens, p.InputPer1K*CacheReadMultiplier),
		Output:     per1K(u.OutputTokens, p.OutputPer1K),
	}
}

// Cached returns the cache-aware cost.
func Cached(p model.Pricing, u gengate.Usage) float64 {
	return Itemize(p, u).Total()
}

// Accountant prices results using the model pricing table.
type Accountant struct {
	lookup func(model.ID) (model.Pricing, bool)
	logger *zap.Logger
}

// NewAccountant returns an Accountant backed by model.PricingFor.
func NewAccountant(logger *zap.Logger) *Accountant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accountant{lookup: model.PricingFor, logger: logger}
}

// Price returns the cost of usage on id. The cache-aware formula applies only
// when the adapter reported cache write or read tokens.
func (a *Accountant) Price(id model.ID, u gengate.Usage) float64 {
	p, ok := a.lookup(id)
	if !ok {
		a.logger.Warn("no pricing entry, billing at zero", zap.String("model", id.String()))
		return 0
	}
	if u.HasCache() {
		return Cached(p, u)
	}
	return Standard(p, u)
}
