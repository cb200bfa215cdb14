// Package rflog wraps zerolog the way the ecosystem's chaos-testing
// tooling does: a small Logger type around a configured zerolog.Logger,
// with level/format/output configuration and WithField/WithFields child
// loggers, plus a process-global convenience logger for packages that
// don't thread a Logger through explicitly.
package rflog

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Format selects zerolog's console writer (human-readable, for terminals)
// or its native JSON output (for log aggregation).
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config configures a new Logger.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format Format
	Output io.Writer
}

// Logger wraps a configured zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger from cfg, defaulting Output to os.Stderr and Level
// to "info" when unset.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level := parseLevel(cfg.Level)

	var w io.Writer = cfg.Output
	if cfg.Format != FormatJSON {
		w = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithField returns a child Logger with one structured field attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// WithFields returns a child Logger with multiple structured fields
// attached.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger()}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg) }

// Info logs at info level.
func (l *Logger) Info(msg string) { l.zl.Info().Msg(msg) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string) { l.zl.Warn().Msg(msg) }

// Error logs at error level, attaching err if non-nil.
func (l *Logger) Error(msg string, err error) {
	ev := l.zl.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}

// global is the process-wide convenience logger, used by packages (the
// CLI's early bootstrap, mainly) that run before a scenario-scoped
// Logger exists.
var global = New(Config{Level: "info"})

// InitGlobal replaces the process-wide convenience logger.
func InitGlobal(l *Logger) { global = l }

// Global returns the process-wide convenience logger.
func Global() *Logger { return global }
