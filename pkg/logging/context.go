package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}

	return Default()
}

// WithRunID tags the context logger with a reconciliation run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return withField(ctx, "run_id", runID)
}

// WithSource adds the source identifier to the context logger.
func WithSource(ctx context.Context, source string) context.Context {
	return withField(ctx, "source", source)
}

// WithStage adds the pipeline stage name to the context logger.
func WithStage(ctx context.Context, stage string) context.Context {
	return withField(ctx, "stage", stage)
}

func withField(ctx context.Context, key string, value any) context.Context {
	logger := addField(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &logger)
}
