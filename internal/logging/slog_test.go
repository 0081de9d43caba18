package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger(t *testing.T) {
	t.Run("writes structured fields", func(t *testing.T) {
		var buf bytes.Buffer
		handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger := NewSlog(slog.New(handler))

		logger.Debug("debug msg", "k", "v")
		logger.Info("info msg", "count", 3)
		logger.Warn("warn msg")
		logger.Error("error msg", "err", "boom")

		out := buf.String()
		require.Contains(t, out, "debug msg")
		require.Contains(t, out, "info msg")
		require.Contains(t, out, "count=3")
		require.Contains(t, out, "warn msg")
		require.Contains(t, out, "err=boom")
	})

	t.Run("respects handler level", func(t *testing.T) {
		var buf bytes.Buffer
		handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
		logger := NewSlog(slog.New(handler))

		logger.Debug("hidden")
		logger.Info("hidden")
		logger.Warn("visible")

		out := buf.String()
		require.NotContains(t, out, "hidden")
		require.Contains(t, out, "visible")
	})

	t.Run("default logger is usable", func(t *testing.T) {
		logger := NewSlogDefault()
		require.NotNil(t, logger)
		logger.Info("smoke")
	})
}
