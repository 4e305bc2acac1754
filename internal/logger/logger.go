package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var rootLogger *slog.Logger

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorWhite  = "\033[37m"
	colorGray   = "\033[90m"
)

func init() {
	level := slog.LevelInfo
	if debug, _ := strconv.ParseBool(os.Getenv("TRIALSCAN_DEBUG")); debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler = &consoleHandler{
		w:          os.Stderr,
		level:      level,
		withColors: true,
	}

	// Mirror everything, uncolored, into a file when one is named.
	if path := os.Getenv("TRIALSCAN_LOG_FILE"); path != "" {
		if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			handler = &teeHandler{
				console: handler,
				file:    &consoleHandler{w: file, level: slog.LevelDebug},
			}
		}
	}

	rootLogger = slog.New(handler)
}

// GetLogger returns a logger tagged with the given module prefix for easier filtering.
func GetLogger(prefix string) *slog.Logger {
	return rootLogger.With("module", prefix)
}

type consoleHandler struct {
	w          io.Writer
	level      slog.Level
	attrs      []slog.Attr
	withColors bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	color, levelStr := colorWhite, record.Level.String()
	switch record.Level {
	case slog.LevelDebug:
		color, levelStr = colorWhite, "DEBUG"
	case slog.LevelInfo:
		color, levelStr = colorBlue, "INFO"
	case slog.LevelWarn:
		color, levelStr = colorYellow, "WARNING"
	case slog.LevelError:
		color, levelStr = colorRed, "ERROR"
	}

	var module string
	var args []string
	collect := func(a slog.Attr) {
		if a.Key == "module" {
			module = a.Value.String()
			return
		}
		args = append(args, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	for _, a := range h.attrs {
		collect(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	argsStr := ""
	if len(args) > 0 {
		argsStr = " (" + strings.Join(args, ", ") + ")"
	}

	prefix := ""
	if module != "" {
		if h.withColors {
			prefix = fmt.Sprintf("%s[%s]%s ", colorGray, module, colorReset)
		} else {
			prefix = fmt.Sprintf("[%s] ", module)
		}
	}

	timeStr := record.Time.Format("15:04:05")
	if h.withColors {
		_, err := fmt.Fprintf(h.w, "%s%s%s%s: %s%s [%s]\n", prefix, color, levelStr, colorReset, record.Message, argsStr, timeStr)
		return err
	}
	_, err := fmt.Fprintf(h.w, "%s%s: %s%s [%s]\n", prefix, levelStr, record.Message, argsStr, timeStr)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{w: h.w, level: h.level, attrs: merged, withColors: h.withColors}
}

func (h *consoleHandler) WithGroup(string) slog.Handler { return h }

type teeHandler struct {
	console slog.Handler
	file    slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.console.Enabled(ctx, level) || t.file.Enabled(ctx, level)
}

func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	if t.console.Enabled(ctx, record.Level) {
		if err := t.console.Handle(ctx, record); err != nil {
			return err
		}
	}
	if t.file.Enabled(ctx, record.Level) {
		return t.file.Handle(ctx, record)
	}
	return nil
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{console: t.console.WithAttrs(attrs), file: t.file.WithAttrs(attrs)}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{console: t.console.WithGroup(name), file: t.file.WithGroup(name)}
}
