package google

import (
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
)

// DefaultWireModel is sent when a logical ID has no entry in the table.
const DefaultWireModel = "gemini-2.5-flash"

var wireModels = map[model.ID]string{
	model.Gemini25Pro:       "gemini-2.5-pro",
	model.Gemini25Flash:     "gemini-2.5-flash",
	model.Gemini25FlashLite: "gemini-2.5-flash-lite",
	model.Gemini20FlashFree: "gemini-2.0-flash-exp",
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
