package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gold-catalog/internal/utils"

	"go.opentelemetry.io/otel/trace"
)

// Options tune the process-wide logger. Zero values keep the defaults.
type Options struct {
	Level     string
	RemoteURI string
	Job       string
	Output    io.Writer
}

var (
	instance *slog.Logger
	once     sync.Once

	mu      sync.RWMutex
	current = Options{Job: "gold-catalog"}
)

func Instance() *slog.Logger {
	once.Do(func() {
		mu.Lock()
		instance = newLogger(os.Stdout, slog.LevelInfo)
		mu.Unlock()
	})

	return active()
}

// Configure replaces the logger built by Instance and sets the remote push target.
func Configure(opts Options) {
	Instance()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	mu.Lock()
	defer mu.Unlock()
	if opts.Job == "" {
		opts.Job = current.Job
	}
	current = opts
	instance = newLogger(out, parseLevel(opts.Level))
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		// AddSource: true,
	}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

func options() Options {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func active() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelInfo, "info", msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelWarn, "warn", msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelError, "error", msg, attrs)
}

func emit(ctx context.Context, level slog.Level, name, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	enrichedAttrs := enrich(ctx, attrs...)
	Instance().LogAttrs(ctx, level, msg, enrichedAttrs...)
	sendLog(options(), name, msg, enrichedAttrs)
}

func enrich(ctx context.Context, attrs ...slog.Attr) []slog.Attr {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
			slog.String("hostname", utils.GetHost()),
		)
	}

	return attrs
}
