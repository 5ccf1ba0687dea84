package anthropic

import (
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
)

// DefaultWireModel is sent when a logical ID has no entry in the table.
const DefaultWireModel = "claude-sonnet-4-5-20250929"

// Pinned snapshots; aliases move underneath us.
var wireModels = map[model.ID]string{
	model.ClaudeHaiku45:  "claude-haiku-4-5-20251001",
	model.ClaudeSonnet45: "claude-sonnet-4-5-20250929",
	model.ClaudeOpus45:   "claude-opus-4-5-20251101",
}

// WireModel returns the API model string for id. Unknown IDs map to
// DefaultWireModel and are logged.
func WireModel(id model.ID, logger *zap.Logger) string {
	if wire, ok := wireModels[id]; ok {
		return wire
	}
	if logger != nil {
		logger.Warn("unmapped model, using default",
			zap.String("model", id.String()),
			zap.String("wire_model", DefaultWireModel),
		)
	}
	return DefaultWireModel
}
