package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
)

// ConsoleHandler prints records as single human-readable lines without
// timestamps. Debug records are shown only in verbose mode and Trace records
// never are.
type ConsoleHandler struct {
	writer  io.Writer
	verbose bool
}

// NewConsoleHandler creates a console handler writing to w
func NewConsoleHandler(w io.Writer, verbose bool) *ConsoleHandler {
	return &ConsoleHandler{writer: w, verbose: verbose}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level <= LevelTrace {
		return false
	}

	if !h.verbose && level < slog.LevelInfo {
		return false
	}

	return true
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var prefix string
	var c *color.Color

	switch {
	case r.Level >= slog.LevelError:
		prefix = "ERROR: "
		c = color.New(color.FgRed)
	case r.Level >= slog.LevelWarn:
		prefix = "WARNING: "
		c = color.New(color.FgYellow)
	case r.Level < slog.LevelInfo:
		prefix = "VERBOSE: "
		c = color.New(color.FgCyan)
	}

	msg := r.Message

	// Summary lines ("  1. alice -> 0x1a2b") are already formatted
	includeAttrs := r.NumAttrs() > 0
	if r.Level == slog.LevelInfo {
		includeAttrs = includeAttrs && !isEnumeratedMessage(msg)
	}

	if includeAttrs {
		attrs := make([]string, 0, r.NumAttrs())
		r.Attrs(func(a slog.Attr) bool {
			attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
			return true
		})

		msg = msg + " " + strings.Join(attrs, " ")
	}

	if c != nil {
		_, _ = c.Fprintf(h.writer, "%s%s\n", prefix, msg)
		return nil
	}

	_, _ = fmt.Fprintf(h.writer, "%s%s\n", prefix, msg)
	return nil
}

// isEnumeratedMessage reports whether msg is an enumerated list item
// such as "  1. alice"
func isEnumeratedMessage(msg string) bool {
	if len(msg) < 4 {
		return false
	}

	return msg[0] == ' ' && msg[1] == ' ' && msg[2] >= '0' && msg[2] <= '9'
}

func (h *ConsoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *ConsoleHandler) WithGroup(_ string) slog.Handler {
	return h
}
