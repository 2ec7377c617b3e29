package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	clipKey  contextKey = "clip"
	stageKey contextKey = "stage"
)

// WithRunID annotates context with the correlation identifier of one run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithClip annotates context with the zero-based clip index.
func WithClip(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, clipKey, index)
}

// ClipFromContext extracts the clip index if present.
func ClipFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(clipKey).(int)
	return v, ok
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
