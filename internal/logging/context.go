// Animeprep - Anime Rating Preprocessing for Embedding Recommenders
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeprep

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	stageKey  contextKey = "stage"
	loggerKey contextKey = "logger"
)

// GenerateRunID creates a new run identifier.
// Returns the first 8 characters of a UUID for readability.
func GenerateRunID() string {
	return uuid.New().String()[:8]
}

// ContextWithRunID returns a new context carrying the given run ID.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// ContextWithNewRunID returns a context with a freshly generated run ID.
func ContextWithNewRunID(ctx context.Context) context.Context {
	return ContextWithRunID(ctx, GenerateRunID())
}

// RunIDFromContext retrieves the run ID from context.
// Returns empty string if not present.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithStage tags the context with the pipeline stage currently executing.
func ContextWithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext retrieves the stage name from context.
func StageFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(stageKey).(string); ok {
		return s
	}
	return ""
}

// ContextWithLogger stores a logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext retrieves a logger from context.
// Returns the global logger if no logger is stored in context.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return current()
}

// Ctx returns a logger with run_id and stage fields added from ctx.
//
//	logging.Ctx(ctx).Info().Int("rows", n).Msg("ratings loaded")
//	// {"level":"info","run_id":"1a2b3c4d","stage":"load","rows":5000000,...}
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := LoggerFromContext(ctx)
	logCtx := logger.With()

	if runID := RunIDFromContext(ctx); runID != "" {
		logCtx = logCtx.Str("run_id", runID)
	}
	if stage := StageFromContext(ctx); stage != "" {
		logCtx = logCtx.Str("stage", stage)
	}

	l := logCtx.Logger()
	return &l
}

// WithComponent creates a child logger with a component field.
//
//	ingestLogger := logging.WithComponent("ingest")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
