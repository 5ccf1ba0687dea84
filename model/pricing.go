package model

// Pricing contains USD prices per 1000 tokens for a chat model.
// A zero price is valid and denotes a free-tier model.
type Pricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

// IsFree returns true if both prices are zero.
func (p Pricing) IsFree() bool {
	return p.InputPer1K == 0 && p.OutputPer1K == 0
}

// PricingFor returns the pricing entry for id.
func PricingFor(id ID) (Pricing, bool) {
	info, ok := registry[id]
	if !ok {
		return Pricing{}, false
	}
	return info.Pricing, true
}
