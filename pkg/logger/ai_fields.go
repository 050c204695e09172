package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
)

// WithCommonFields attaches the provider and model to l, skipping empty values.
func WithCommonFields(l *zap.Logger, provider, model string) *zap.Logger {
	l = OrNop(l)
	var fields []zap.Field
	if p := strings.TrimSpace(provider); p != "" {
		fields = append(fields, zap.String(FieldProvider, p))
	}
	if m := strings.TrimSpace(model); m != "" {
		fields = append(fields, zap.String(FieldModel, m))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
