package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// termHandler is a slog.Handler for terminals: one line per record with a
// colored level label, followed by key=value attributes.
type termHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
	group string
}

func newTermHandler(w io.Writer, level slog.Leveler) *termHandler {
	return &termHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *termHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *termHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString("|")
	b.WriteString(levelLabel(r.Level))
	b.WriteString("| ")
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteString("\n")
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *termHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), qualify(h.group, attrs)...)
	return &cp
}

func (h *termHandler) WithGroup(name string) slog.Handler {
	cp := *h
	if cp.group != "" {
		name = cp.group + "." + name
	}
	cp.group = name
	return &cp
}

func qualify(group string, attrs []slog.Attr) []slog.Attr {
	if group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: group + "." + a.Key, Value: a.Value}
	}
	return out
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	fmt.Fprintf(b, " %s=%v", color.New(color.Faint).Sprint(key), a.Value.Resolve())
}

func levelLabel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgWhite).Add(color.BgRed).Sprint(" ERR  ")
	case l >= slog.LevelWarn:
		return color.New(color.FgBlack).Add(color.BgYellow).Sprint(" WARN ")
	case l >= slog.LevelInfo:
		return color.New(color.FgWhite).Add(color.BgGreen).Sprint(" INFO ")
	default:
		return color.New(color.FgWhite, color.Faint).Sprint(" DBG  ")
	}
}
