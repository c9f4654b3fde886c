package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across kirgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Codegen
	FieldModule   = "module"
	FieldTarget   = "target"
	FieldKind     = "kind"
	FieldProperty = "property"
	FieldEvent    = "event"
	FieldHandler  = "handler"
	FieldLanguage = "language"

	FieldFile       = "file"
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldError      = "error"
	FieldVersion    = "version"
)

type contextKey string

const (
	runIDKey  contextKey = "logger_run_id"
	moduleKey contextKey = "logger_module"
)

// WithRunID adds a generation run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithModule adds the id of the module being generated to the context
func WithModule(ctx context.Context, moduleID string) context.Context {
	return context.WithValue(ctx, moduleKey, moduleID)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if module, ok := ctx.Value(moduleKey).(string); ok && module != "" {
		fields = append(fields, FieldModule, module)
	}

	return fields
}

// LoggerFromContext returns base (the global logger when nil) with the
// fields carried by ctx
func LoggerFromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	func New(cfg *am.Config) *Orchestrator {
//	    return &Orchestrator{
//	        logger: logger.ComponentLogger("orchestrator"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
