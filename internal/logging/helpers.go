package logging

import (
	"maps"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when it implements the
// optional FieldsLogger extension, and returns the logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}

	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}
