package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the logging surface used across matmul. It wraps slog.Logger so
// packages can accept a Logger and tests can swap in a buffer-backed one.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

// Format selects the slog handler.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatText   Format = "text"
)

// Options configure New.
type Options struct {
	Level  slog.Level
	Format Format
	Writer io.Writer
}

// SlogLogger is a Logger backed by *slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// New builds a Logger from opts. A nil Writer means stderr.
func New(opts Options) Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	switch opts.Format {
	case FormatJSON:
		handlerOpts.AddSource = true
		h = slog.NewJSONHandler(w, handlerOpts)
	case FormatText:
		h = slog.NewTextHandler(w, handlerOpts)
	default:
		h = NewPrettyHandler(w, handlerOpts)
	}
	return FromHandler(h)
}

// FromHandler wraps an arbitrary slog.Handler.
func FromHandler(h slog.Handler) Logger {
	return &SlogLogger{logger: slog.New(h)}
}

// Default writes info and above to stderr in text form.
func Default() Logger {
	return New(Options{Level: slog.LevelInfo, Format: FormatText})
}

// Discard drops everything.
func Discard() Logger {
	return FromHandler(slog.NewTextHandler(io.Discard, nil))
}

// FromContext returns the Logger stored in ctx, or Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return Default()
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

type loggerKey struct{}

func (l *SlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *SlogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *SlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

func (l *SlogLogger) WithGroup(name string) Logger {
	return &SlogLogger{logger: l.logger.WithGroup(name)}
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat validates a handler name. The empty string selects pretty.
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(format))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatJSON, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("unknown log format %q (want pretty, json or text)", format)
}
