package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/glossary-core/internal/infrastructure/config"
)

// serviceName is attached to every log entry.
const serviceName = "glossary"

// Logger is a slog.Logger carrying the service name and version on every
// record. Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger writing to the stream named by cfg.Output
// ("stderr", anything else means stdout).
func New(cfg config.LoggingConfig, version string) *Logger {
	out := io.Writer(os.Stdout)
	if strings.EqualFold(cfg.Output, "stderr") {
		out = os.Stderr
	}
	return NewWithWriter(cfg, version, out)
}

// NewWithWriter builds a Logger writing to w. cfg.Format "text" selects the
// key=value handler; anything else is JSON.
func NewWithWriter(cfg config.LoggingConfig, version string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	}

	return &Logger{slog.New(h).With("service", serviceName, "version", version)}
}

// parseLevel maps debug, info, warn (or warning) and error; anything else is
// info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a child Logger that adds args to every record, e.g.
// log.With("component", "mqtt").
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// Default is the JSON, info-level, stdout logger used until the config has
// been read.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}
