package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPhase is the standardized structured logging key for pipeline phase names.
	FieldPhase = "phase"
	// FieldVideo is the standardized structured logging key for the media item being processed.
	FieldVideo = "video"
	// FieldSessionID is the standardized structured logging key for streaming session identifiers.
	FieldSessionID = "session_id"
	// FieldJobID is the standardized structured logging key for batch job identifiers.
	FieldJobID = "job_id"
	// FieldLanguage is the standardized structured logging key for language codes.
	FieldLanguage = "language"
	// FieldEventType tags log records for downstream filtering.
	FieldEventType = "event_type"
)

type contextKey string

const (
	phaseKey   contextKey = "phase"
	videoKey   contextKey = "video"
	sessionKey contextKey = "session_id"
)

// WithPhase annotates context with the pipeline phase name.
func WithPhase(ctx context.Context, phase string) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// WithVideo annotates context with the media item identifier.
func WithVideo(ctx context.Context, video string) context.Context {
	if video == "" {
		return ctx
	}
	return context.WithValue(ctx, videoKey, video)
}

// WithSessionID annotates context with a streaming session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, id)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	var attrs []Attr
	if v, ok := ctx.Value(phaseKey).(string); ok && v != "" {
		attrs = append(attrs, String(FieldPhase, v))
	}
	if v, ok := ctx.Value(videoKey).(string); ok && v != "" {
		attrs = append(attrs, String(FieldVideo, v))
	}
	if v, ok := ctx.Value(sessionKey).(string); ok && v != "" {
		attrs = append(attrs, String(FieldSessionID, v))
	}
	return attrs
}

// WithContext returns a logger pre-populated with any standardized fields
// carried by ctx. A nil logger yields a no-op logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
