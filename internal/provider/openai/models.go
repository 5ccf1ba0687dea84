package openai

import (
	"strings"

	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
)

// DefaultWireModel is sent when a logical ID has no entry in the table.
const DefaultWireModel = "gpt-4o-mini"

var wireModels = map[model.ID]string{
	model.GPT4o:     "gpt-4o",
	model.GPT4oMini: "gpt-4o-mini",
	model.GPT5Mini:  "gpt-5-mini",
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

// fixedTemperature reports whether the model rejects a temperature parameter.
// The GPT-5 reasoning models only accept the default.
func fixedTemperature(wire string) bool {
	return strings.HasPrefix(wire, "gpt-5")
}
