package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// sourceAboveHandler decorates records at or above a level threshold
// with their call site. Routine debug/info records stay lean; warnings
// and errors carry file and line for triage.
type sourceAboveHandler struct {
	next slog.Handler
	min  slog.Level
}

// WithSourceAbove wraps next so records at min or above get a source
// attribute. next must be built with AddSource disabled, or the
// attribute shows up twice.
func WithSourceAbove(next slog.Handler, min slog.Level) slog.Handler {
	return &sourceAboveHandler{next: next, min: min}
}

func (h *sourceAboveHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sourceAboveHandler) Handle(ctx context.Context, r slog.Record) error {
	// The record already carries the caller's program counter; resolving
	// it here avoids the fragile skip-count arithmetic of capturing the
	// stack a second time.
	if r.Level >= h.min && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		}))
	}
	return h.next.Handle(ctx, r)
}

func (h *sourceAboveHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceAboveHandler{next: h.next.WithAttrs(attrs), min: h.min}
}

func (h *sourceAboveHandler) WithGroup(name string) slog.Handler {
	return &sourceAboveHandler{next: h.next.WithGroup(name), min: h.min}
}
