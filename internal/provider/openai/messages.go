package openai

import (
	"strings"

	"github.com/openai/openai-go"
	"github.com/spetersoncode/gengate"
)

// buildMessages converts a request into a role-tagged message list. Cache
// blocks are appended to the system message; OpenAI caches long prefixes on
// its own, so no markers are sent.
func buildMessages(req *gengate.Request) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion

	parts := make([]string, 0, 1+len(req.CacheBlocks))
	if req.System != "" {
		parts = append(parts, req.System)
	}
	for _, block := range req.CacheBlocks {
		if block != "" {
			parts = append(parts, block)
		}
	}
	if len(parts) > 0 {
		result = append(result, openai.SystemMessage(strings.Join(parts, "\n\n")))
	}

	return append(result, openai.UserMessage(req.User))
}

// buildParams converts a request into Chat Completions parameters.
func (a *Adapter) buildParams(req *gengate.Request) openai.ChatCompletionNewParams {
	wire := WireModel(req.Model, a.logger)

	params := openai.ChatCompletionNewParams{
		Model:    wire,
		Messages: buildMessages(req),
	}

	maxTokens := a.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}
	params.MaxCompletionTokens = openai.Int(maxTokens)

	if !fixedTemperature(wire) {
		params.Temperature = openai.Float(req.Temperature)
	}

	if req.WantsJSON() {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	return params
}

// usageFrom converts OpenAI token counts.
func usageFrom(u openai.CompletionUsage) gengate.Usage {
	return gengate.Usage{
		InputTokens:  int(u.PromptTokens),
		OutputTokens: int(u.CompletionTokens),
	}
}
