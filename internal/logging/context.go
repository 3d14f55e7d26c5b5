package logging

import (
	"context"

	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if op := OperationFromContext(ctx); op != "" {
		fields = append(fields, zap.String("op", op))
	}
	if path := StorePathFromContext(ctx); path != "" {
		fields = append(fields, zap.String("store.path", path))
	}

	return fields
}

// Context key types
type operationCtxKey struct{}
type storePathCtxKey struct{}
type loggerCtxKey struct{}

// WithOperation tags the context with the CLI operation being executed
// (e.g. "add", "import", "evolve").
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationCtxKey{}, op)
}

// OperationFromContext extracts the operation name from context.
func OperationFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(operationCtxKey{}).(string); ok {
		return op
	}
	return ""
}

// WithStorePath tags the context with the backing store file path.
func WithStorePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, storePathCtxKey{}, path)
}

// StorePathFromContext extracts the store path from context.
func StorePathFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(storePathCtxKey{}).(string); ok {
		return p
	}
	return ""
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a default nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{zap: zap.NewNop(), config: NewDefaultConfig()}
}
