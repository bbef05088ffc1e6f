package logging

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/skillthief/internal/errors"
)

// TeeHandler fans records out to several handlers, e.g. the terminal and
// the --log-file JSON sink.
type TeeHandler struct {
	handlers []slog.Handler
}

// NewTeeHandler returns a handler writing to every non-nil handler given.
func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	hs := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return &TeeHandler{handlers: hs}
}

// Enabled reports whether any underlying handler accepts level.
func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes a clone of r to each enabled handler and combines failures.
func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		err = errors.CombineErrors(err, h.Handle(ctx, r.Clone()))
	}
	return err
}

// WithAttrs applies attrs to every underlying handler.
func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup applies the group to every underlying handler.
func (t *TeeHandler) WithGroup(name string) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t *TeeHandler) derive(fn func(slog.Handler) slog.Handler) *TeeHandler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = fn(h)
	}
	return &TeeHandler{handlers: hs}
}
