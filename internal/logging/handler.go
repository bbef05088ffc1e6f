package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler implements slog.Handler for TTY-optimized text output.
// It provides colorized output when the writer supports it and masks
// credentials found in attribute values.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string

	useColor   bool
	timeColor  *color.Color
	traceColor *color.Color
	debugColor *color.Color
	infoColor  *color.Color
	warnColor  *color.Color
	errorColor *color.Color
	keyColor   *color.Color
}

// NewHandler creates a new TTY-optimized text handler.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}

	if SupportsColor(out) {
		h.useColor = true
		h.timeColor = color.New(color.FgHiBlack)
		h.traceColor = color.New(color.FgHiBlack)
		h.debugColor = color.New(color.FgMagenta)
		h.infoColor = color.New(color.FgGreen)
		h.warnColor = color.New(color.FgYellow)
		h.errorColor = color.New(color.FgRed, color.Bold)
		h.keyColor = color.New(color.FgCyan)
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle writes one line: time, level, message, then key=value attributes.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		t := r.Time.Format(time.Kitchen)
		if h.useColor {
			t = h.timeColor.Sprint(t)
		}
		sb.WriteString(t)
		sb.WriteByte(' ')
	}

	fmt.Fprintf(&sb, "%-5s ", h.levelString(r.Level))
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&sb, "", a)
	}
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *Handler) levelString(l slog.Level) string {
	s := l.String()
	if l < slog.LevelDebug {
		s = "TRACE"
	}
	if !h.useColor {
		return s
	}
	switch {
	case l >= slog.LevelError:
		return h.errorColor.Sprint(s)
	case l >= slog.LevelWarn:
		return h.warnColor.Sprint(s)
	case l >= slog.LevelInfo:
		return h.infoColor.Sprint(s)
	case l >= slog.LevelDebug:
		return h.debugColor.Sprint(s)
	default:
		return h.traceColor.Sprint(s)
	}
}

func (h *Handler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

// appendAttr writes a as key=value; attrs stored by WithAttrs already
// carry their group prefix.
func (h *Handler) appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := prefix + a.Key

	var value string
	switch {
	case ShouldMask(a.Key):
		value = MaskValue(a.Value.String())
	default:
		value = RedactURL(a.Value.String())
	}

	if h.useColor {
		key = h.keyColor.Sprint(key)
	}
	fmt.Fprintf(sb, " %s=%s", key, value)
}

// WithAttrs returns a new Handler with the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := *h
	newH.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newH.attrs = append(newH.attrs, h.attrs...)
	prefix := h.groupPrefix()
	for _, a := range attrs {
		a.Key = prefix + a.Key
		newH.attrs = append(newH.attrs, a)
	}
	return &newH
}

// WithGroup returns a new Handler with the given group name.
// Groups are rendered as dotted key prefixes.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.groups = append(append([]string(nil), h.groups...), name)
	return &newH
}
