package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spetersoncode/gengate"
)

// buildSystem converts the system prompt and cache blocks into system text
// blocks. With caching on, the system block and the last cache block carry a
// cache_control breakpoint.
func buildSystem(req *gengate.Request) []anthropic.TextBlockParam {
	var system []anthropic.TextBlockParam

	// Skip empty text - Anthropic API rejects empty text blocks
	if req.System != "" {
		system = append(system, anthropic.TextBlockParam{Text: req.System})
	}

	cached := 0
	for _, block := range req.CacheBlocks {
		if block == "" {
			continue
		}
		system = append(system, anthropic.TextBlockParam{Text: block})
		cached++
	}

	if !req.CacheEnabled() || cached == 0 {
		return system
	}

	if req.System != "" {
		system[0].CacheControl = anthropic.NewCacheControlEphemeralParam()
	}
	system[len(system)-1].CacheControl = anthropic.NewCacheControlEphemeralParam()

	return system
}

// buildParams converts a request into Messages API parameters.
func (a *Adapter) buildParams(req *gengate.Request) anthropic.MessageNewParams {
	maxTokens := a.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(WireModel(req.Model, a.logger)),
		MaxTokens:   maxTokens,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.User))},
		Temperature: anthropic.Float(req.Temperature),
	}
	if system := buildSystem(req); len(system) > 0 {
		params.System = system
	}
	return params
}

// finalUsage converts message_delta counts. Input counts are only taken when
// the event also reports cache counts; otherwise the message_start input and
// cache counts stand and only the output count is updated.
func finalUsage(input, cacheWrite, cacheRead, output int64) gengate.Usage {
	if cacheWrite > 0 || cacheRead > 0 {
		return normalizeUsage(input, cacheWrite, cacheRead, output)
	}
	return gengate.Usage{OutputTokens: int(output)}
}

// normalizeUsage folds cache counts into the total input count.
func normalizeUsage(input, cacheWrite, cacheRead, output int64) gengate.Usage {
	return gengate.Usage{
		InputTokens:      int(input + cacheWrite + cacheRead),
		OutputTokens:     int(output),
		CacheWriteTokens: int(cacheWrite),
		CacheReadTokens:  int(cacheRead),
	}
}
