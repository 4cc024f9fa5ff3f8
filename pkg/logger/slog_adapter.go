package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// SlogHandler adapts a Logger to slog.Handler so libraries that expect a
// *slog.Logger can write through the namespaced debug logger.
type SlogHandler struct {
	logger *Logger
}

// NewSlogHandler wraps a Logger as a slog.Handler.
func NewSlogHandler(logger *Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled follows the wrapped logger's DEBUG state for every level.
func (h *SlogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return h.logger.Enabled()
}

// Handle renders the record as "message key=value ..." with a level prefix.
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.logger.Enabled() {
		return nil
	}

	var msg strings.Builder
	msg.WriteString(levelPrefix(r.Level))
	msg.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		msg.WriteString(" " + a.Key + "=" + a.Value.String())
		return true
	})

	h.logger.Print(msg.String())
	return nil
}

// WithAttrs does not persist attributes; records carry their own.
func (h *SlogHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

// WithGroup does not persist groups.
func (h *SlogHandler) WithGroup(_ string) slog.Handler {
	return h
}

func levelPrefix(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "[DEBUG] "
	case slog.LevelWarn:
		return "[WARN] "
	case slog.LevelError:
		return "[ERROR] "
	default:
		return "[INFO] "
	}
}

// NewSlogLogger creates a *slog.Logger backed by a namespaced Logger.
func NewSlogLogger(namespace string) *slog.Logger {
	return slog.New(NewSlogHandler(New(namespace)))
}

// Discard returns a slog.Logger that drops all output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
