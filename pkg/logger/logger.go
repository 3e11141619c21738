package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger keeps the printf-style API used across services on top of zap.
type Logger struct {
	base  *zap.Logger
	info  *zap.SugaredLogger
	warn  *zap.SugaredLogger
	error *zap.SugaredLogger
}

// New builds a logger from LOG_LEVEL (debug, info, warn, error) and
// LOG_FORMAT (json, console).
func New() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := cfg.Level.UnmarshalText([]byte(lvl)); err != nil {
			cfg.Level.SetLevel(zapcore.InfoLevel)
		}
	}

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewExample()
	}
	return NewWithZap(base)
}

// NewWithZap wraps an existing zap logger. Tests use it with an observer core.
func NewWithZap(base *zap.Logger) *Logger {
	sugar := base.Sugar()
	return &Logger{
		base:  base,
		info:  sugar,
		warn:  sugar,
		error: sugar,
	}
}

// Named returns a child logger tagged with the component name.
func (l *Logger) Named(name string) *Logger {
	return NewWithZap(l.base.Named(name))
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.info.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Errorf(format, args...)
}

// Zap exposes the underlying logger for libraries that want structured fields.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

func (l *Logger) Sync() error {
	return l.base.Sync()
}
