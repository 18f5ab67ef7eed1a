package logging

import (
	"context"
	"log/slog"

	"github.com/miljoverk/samsvar/internal/errors"
)

type contextKey string

const slogAttrs contextKey = "slogAttrs"

// ContextHandler enriches log records with [slog.Attr] stored in the context with
// [WithAttrs]. The pipeline uses it to stamp every log line of a run with its task id.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps an [slog.Handler] with context-attr support.
func NewContextHandler(h slog.Handler) ContextHandler {
	return ContextHandler{Handler: h}
}

// Handle adds the context attributes to the record before delegating to the wrapped handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogAttrs).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	if err := h.Handler.Handle(ctx, r); err != nil {
		return errors.Wrap(err, "handle log record")
	}
	return nil
}

// WithAttrs stores [slog.Attr] in the context for [ContextHandler] to pick up.
func WithAttrs(ctx context.Context, attr ...slog.Attr) context.Context {
	if v, ok := ctx.Value(slogAttrs).([]slog.Attr); ok {
		v = append(v, attr...)
		return context.WithValue(ctx, slogAttrs, v)
	}
	return context.WithValue(ctx, slogAttrs, attr)
}
