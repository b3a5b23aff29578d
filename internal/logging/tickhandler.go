package logging

import (
	"context"
	"log/slog"
)

// TickContext identifies the programmable block and the tick being run.
type TickContext struct {
	Owner string
	Tick  int64
}

// TickSource reports the current tick context; ok is false before the
// program exists.
type TickSource func() (tc TickContext, ok bool)

// tickHandler stamps owner and tick on every record.
type tickHandler struct {
	inner  slog.Handler
	source TickSource
}

func (h tickHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h tickHandler) Handle(ctx context.Context, r slog.Record) error {
	if tc, ok := h.source(); ok {
		r.AddAttrs(slog.String("owner", tc.Owner), slog.Int64("tick", tc.Tick))
	}
	return h.inner.Handle(ctx, r)
}

func (h tickHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tickHandler{inner: h.inner.WithAttrs(attrs), source: h.source}
}

func (h tickHandler) WithGroup(name string) slog.Handler {
	return tickHandler{inner: h.inner.WithGroup(name), source: h.source}
}
