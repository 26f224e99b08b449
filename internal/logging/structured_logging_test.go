package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("writes JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("routes built", slog.String("agency_id", "SNCF"), slog.Int("routes", 12))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"routes built"`)
		assert.Contains(t, output, `"agency_id":"SNCF"`)
		assert.Contains(t, output, `"routes":12`)
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Info("info message")
		logger.Warn("warning message")

		assert.NotContains(t, buf.String(), "info message")
		assert.Contains(t, buf.String(), "warning message")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestForComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := ForComponent(NewStructuredLogger(&buf, slog.LevelInfo), "geometry")
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"component":"geometry"`)
}

func TestLogHelpers(t *testing.T) {
	t.Run("LogError adds error attribute", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "route failed", errors.New("stop not found"), slog.String("route_id", "R1"))

		assert.Contains(t, buf.String(), `"level":"ERROR"`)
		assert.Contains(t, buf.String(), `"error":"stop not found"`)
		assert.Contains(t, buf.String(), `"route_id":"R1"`)
	})

	t.Run("LogError ignores nil logger and nil error", func(t *testing.T) {
		assert.NotPanics(t, func() { LogError(nil, "x", errors.New("y")) })
		var buf bytes.Buffer
		LogError(NewStructuredLogger(&buf, slog.LevelInfo), "x", nil)
		assert.Empty(t, buf.String())
	})

	t.Run("LogOperation drops zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "segments aggregated", slog.Duration("duration", 0), slog.Int("segments", 3))

		assert.NotContains(t, buf.String(), `"duration"`)
		assert.Contains(t, buf.String(), `"segments":3`)
	})

	t.Run("LogHTTPRequest", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogHTTPRequest(logger, "GET", "/agencies", 200, 1500*time.Microsecond, slog.String("request_id", "abc"))

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":1.5`)
		assert.Contains(t, output, `"request_id":"abc"`)
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
