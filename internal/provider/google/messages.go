package google

import (
	"strings"

	"github.com/spetersoncode/gengate"
	"google.golang.org/genai"
)

// buildPrompt joins the system prompt, cache blocks and user prompt into a
// single user turn separated by blank lines.
func buildPrompt(req *gengate.Request) []*genai.Content {
	parts := make([]string, 0, 2+len(req.CacheBlocks))
	if req.System != "" {
		parts = append(parts, req.System)
	}
	for _, block := range req.CacheBlocks {
		if block != "" {
			parts = append(parts, block)
		}
	}
	parts = append(parts, req.User)

	return []*genai.Content{
		genai.NewContentFromText(strings.Join(parts, "\n\n"), genai.RoleUser),
	}
}

// buildConfig converts request parameters into a generation config.
func (a *Adapter) buildConfig(req *gengate.Request) *genai.GenerateContentConfig {
	maxTokens := a.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = int32(req.MaxTokens)
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: maxTokens,
		Temperature:     genai.Ptr(float32(req.Temperature)),
	}
	if req.WantsJSON() {
		config.ResponseMIMEType = "application/json"
	}
	return config
}

// usageFrom converts Gemini usage metadata; nil yields zero counts. Thinking
// tokens are billed as output.
func usageFrom(md *genai.GenerateContentResponseUsageMetadata) gengate.Usage {
	if md == nil {
		return gengate.Usage{}
	}
	return gengate.Usage{
		InputTokens:  int(md.PromptTokenCount),
		OutputTokens: int(md.CandidatesTokenCount + md.ThoughtsTokenCount),
	}
}

// textOf concatenates the text parts of the first candidate.
func textOf(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
