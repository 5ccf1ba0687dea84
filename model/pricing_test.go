package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingFor(t *testing.T) {
	t.Run("returns pricing for registered model", func(t *testing.T) {
		p, ok := PricingFor(ClaudeSonnet45)
		require.True(t, ok)
		assert.Equal(t, 0.003, p.InputPer1K)
		assert.Equal(t, 0.015, p.OutputPer1K)
	})

	t.Run("free tier model has zero pricing", func(t *testing.T) {
		p, ok := PricingFor(Gemini20FlashFree)
		require.True(t, ok)
		assert.True(t, p.IsFree())
	})

	t.Run("unknown model", func(t *testing.T) {
		_, ok := PricingFor(ID("gpt-2"))
		assert.False(t, ok)
	})

	t.Run("cheaper tiers cost less", func(t *testing.T) {
		haiku, _ := PricingFor(ClaudeHaiku45)
		opus, _ := PricingFor(ClaudeOpus45)
		assert.Less(t, haiku.InputPer1K, opus.InputPer1K)
		assert.Less(t, haiku.OutputPer1K, opus.OutputPer1K)
	})
}

func TestAllModelsHaveNonNegativePricing(t *testing.T) {
	for _, id := range All() {
		p, ok := PricingFor(id)
		require.True(t, ok, id)
		assert.GreaterOrEqual(t, p.InputPer1K, 0.0, id)
		assert.GreaterOrEqual(t, p.OutputPer1K, 0.0, id)
	}
}
