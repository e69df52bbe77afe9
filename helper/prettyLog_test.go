package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create PrettyHandler with default options", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		assert.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
		assert.NotNil(t, handler.Handler, "Expected handler to have a non-nil Handler field")
		assert.NotNil(t, handler.l, "Expected handler to have a non-nil logger field")
	})

	t.Run("Create PrettyHandler with custom level", func(t *testing.T) {
		var buf bytes.Buffer
		opts := PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		}

		handler := NewPrettyHandler(&buf, opts)
		assert.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
	})
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	levels := []struct {
		level slog.Level
		label string
	}{
		{slog.LevelDebug, "DEBUG:"},
		{slog.LevelInfo, "INFO:"},
		{slog.LevelWarn, "WARN:"},
		{slog.LevelError, "ERROR:"},
	}

	for _, tc := range levels {
		t.Run("Handle "+tc.label+" level log", func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyHandlerOptions{
				SlogOpts: slog.HandlerOptions{
					Level: slog.LevelDebug,
				},
			}
			handler := NewPrettyHandler(&buf, opts)

			record := slog.NewRecord(time.Now(), tc.level, "matching run", 0)
			record.AddAttrs(slog.String("document", "corpus entry"))

			err := handler.Handle(ctx, record)

			assert.NoError(t, err, "Expected Handle to not return an error")
			output := buf.String()
			assert.Contains(t, output, tc.label, "Expected output to contain the level")
			assert.Contains(t, output, "matching run", "Expected output to contain the message")
			assert.Contains(t, output, "document", "Expected output to contain the attribute key")
			assert.Contains(t, output, "corpus entry", "Expected output to contain the attribute value")
		})
	}

	t.Run("Handle log without attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "plain message", 0)
		err := handler.Handle(ctx, record)

		assert.NoError(t, err, "Expected Handle to not return an error")
		assert.Contains(t, buf.String(), "plain message", "Expected output to contain the message")
		assert.Contains(t, buf.String(), "{}", "Expected an empty attribute object")
	})
}
