package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "FATAL", FatalLevel.String())
}

func TestOr(t *testing.T) {
	logger := NewDefaultLoggerNoColor()
	assert.Same(t, Logger(logger), Or(logger))

	_, isNoOp := Or(nil).(*NoOpLogger)
	assert.True(t, isNoOp)
}

func TestFormatMessage(t *testing.T) {
	logger := NewDefaultLoggerNoColor()

	msg := logger.formatMessage(InfoLevel, nil, "computing regressor")
	assert.Equal(t, "[INFO] computing regressor", msg)

	msg = logger.formatMessage(InfoLevel, nil, "computing regressor", Fields{"window": 6})
	assert.True(t, strings.HasPrefix(msg, "[INFO] computing regressor "))
	assert.Contains(t, msg, "window:6")
}

func TestWithFieldsMerges(t *testing.T) {
	logger := NewDefaultLoggerNoColor().WithFields(Fields{"metric": "env"}).(*DefaultLogger)

	msg := logger.formatMessage(DebugLevel, nil, "start", Fields{"window": 10})
	assert.Contains(t, msg, "metric:env")
	assert.Contains(t, msg, "window:10")

	// Call-site fields override presets
	msg = logger.formatMessage(DebugLevel, nil, "start", Fields{"metric": "rvt"})
	assert.Contains(t, msg, "metric:rvt")
	assert.NotContains(t, msg, "metric:env")
}

func TestWithContext(t *testing.T) {
	base := NewDefaultLoggerNoColor()

	ctx := ContextWithFields(context.Background(), Fields{"run": "sub-01"})
	logger := base.WithContext(ctx).(*DefaultLogger)
	assert.Contains(t, logger.formatMessage(InfoLevel, nil, "m"), "run:sub-01")

	// A bare context leaves the logger unchanged
	assert.Same(t, Logger(base), base.WithContext(context.Background()))
}
