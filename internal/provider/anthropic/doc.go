// Package anthropic implements [gengate.Adapter] on top of the official
// Anthropic Go SDK.
//
// # Prompt caching
//
// When a request carries cache blocks and caching is enabled, the system
// prompt and the last cache block are marked with an ephemeral cache_control
// breakpoint. Anthropic reports cache activity separately from regular input:
//
//	input_tokens                 uncached prompt tokens
//	cache_creation_input_tokens  tokens written to the cache
//	cache_read_input_tokens      tokens served from the cache
//
// The adapter folds all three into [gengate.Usage.InputTokens] and surfaces
// the cache counts in CacheWriteTokens and CacheReadTokens, which is the
// shape the cost accountant expects.
//
// # Response format
//
// Anthropic has no response-format switch, so [gengate.FormatJSON] is not
// forwarded. Callers that want JSON ask for it in the prompt.
//
// # Basic Usage
//
//	adapter := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//
//	c, err := adapter.Execute(ctx, &gengate.Request{
//	    Model: model.ClaudeHaiku45,
//	    User:  "Explain quantum computing briefly.",
//	})
//
// A missing API key is reported as a [gengate.ConfigurationError] when a
// call is made, not at construction.
package anthropic
