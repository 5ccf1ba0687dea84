// Package model defines the closed set of logical model identifiers accepted
// by the gateway, together with their provider family and pricing.
//
// Logical identifiers are stable names such as "claude-haiku-4.5". They are
// decoupled from the upstream wire names; each provider adapter
// keeps its own table from [ID] to wire model.
//
// # Lookup
//
//	info, ok := model.Lookup(model.ClaudeSonnet45)
//	if ok {
//	    fmt.Println(info.Family, info.Pricing.InputPer1K)
//	}
//
// Strings coming from configuration or a router are converted with [Parse],
// which rejects anything outside the enumeration:
//
//	id, err := model.Parse("gpt-4o-mini")
//
// # Pricing
//
// Prices are expressed in USD per 1000 tokens:
//
//	p, _ := model.PricingFor(model.GPT4o)
//	cost := float64(inputTokens)/1000*p.InputPer1K + float64(outputTokens)/1000*p.OutputPer1K
//
// The [github.com/spetersoncode/gengate/cost] package implements the full
// accounting rules, including prompt-cache billing.
package model
