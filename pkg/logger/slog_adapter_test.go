//go:build !integration

package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestSlogHandlerFollowsLoggerState(t *testing.T) {
	l := &Logger{namespace: "test:slog", enabled: false, lastLog: time.Now()}
	h := NewSlogHandler(l)

	if h.Enabled(context.Background(), slog.LevelError) {
		t.Error("handler should be disabled when the wrapped logger is")
	}

	// Handling a record on a disabled handler is a no-op, not an error.
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "message", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
}

func TestSlogHandlerPassthroughs(t *testing.T) {
	h := NewSlogHandler(New("test:slog"))

	if h.WithAttrs([]slog.Attr{slog.String("k", "v")}) != slog.Handler(h) {
		t.Error("WithAttrs should return the same handler")
	}
	if h.WithGroup("group") != slog.Handler(h) {
		t.Error("WithGroup should return the same handler")
	}
}

func TestLevelPrefix(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "[DEBUG] "},
		{slog.LevelInfo, "[INFO] "},
		{slog.LevelWarn, "[WARN] "},
		{slog.LevelError, "[ERROR] "},
	}

	for _, tt := range tests {
		if got := levelPrefix(tt.level); got != tt.want {
			t.Errorf("levelPrefix(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestDiscardLoggerIsUsable(t *testing.T) {
	Discard().Info("dropped", "key", "value")
}
