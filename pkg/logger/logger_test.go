package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewWithZap(zap.New(core)), logs
}

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.error)
	assert.NotNil(t, logger.warn)
}

func TestInfo(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.Info("Test message: %s", "info")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "Test message: info", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestError(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.Error("Test error: %s", "error")

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "Test error: error", entries[0].Message)
}

func TestWarn(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.Warn("Test warning: %s", "warning")

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestDebug_FilteredByLevel(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.Debug("hidden %d", 1)

	assert.Equal(t, 0, logs.Len())
}

func TestLogger_Formatting(t *testing.T) {
	logger, logs := newObserved(zapcore.DebugLevel)

	logger.Info("User %s logged in with ID %d", "john", 123)
	logger.Error("Failed to process request %d: %s", 404, "not found")
	logger.Warn("Warning: %s count is %d", "items", 5)

	messages := make([]string, 0, logs.Len())
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{
		"User john logged in with ID 123",
		"Failed to process request 404: not found",
		"Warning: items count is 5",
	}, messages)
}

func TestNamed(t *testing.T) {
	logger, logs := newObserved(zapcore.InfoLevel)

	logger.Named("matching").Info("accepted")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "matching", entries[0].LoggerName)
}
