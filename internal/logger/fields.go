package logger

import "context"

// Standard field names for structured logging.
const (
	FieldChainID   = "chain_id"
	FieldRequestID = "request_id"
	FieldComponent = "component"

	FieldProvider = "provider"
	FieldModel    = "model"
	FieldSchema   = "schema"
	FieldAttempt  = "attempt"

	FieldStepID = "step_id"
	FieldMood   = "mood"
	FieldValid  = "valid"
	FieldQuery  = "query"

	FieldDurationMS = "duration_ms"
	FieldError      = "error"
	FieldCount      = "count"
	FieldStatus     = "status"
	FieldCacheHit   = "cache_hit"
)

type contextKey string

const (
	chainIDKey   contextKey = "logger_chain_id"
	requestIDKey contextKey = "logger_request_id"
	componentKey contextKey = "logger_component"
)

// WithChainID adds a reasoning chain ID to the context for logging
func WithChainID(ctx context.Context, chainID string) context.Context {
	return context.WithValue(ctx, chainIDKey, chainID)
}

// WithRequestID adds an LLM request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts key-value pairs suitable for Infow/Debugw.
func FieldsFromContext(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}

	var fields []interface{}

	if v, ok := ctx.Value(chainIDKey).(string); ok && v != "" {
		fields = append(fields, FieldChainID, v)
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		fields = append(fields, FieldRequestID, v)
	}
	if v, ok := ctx.Value(componentKey).(string); ok && v != "" {
		fields = append(fields, FieldComponent, v)
	}

	return fields
}
