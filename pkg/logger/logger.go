// Package logger provides namespaced debug logging controlled by the DEBUG
// environment variable, following the conventions of the npm debug package:
//
//	DEBUG=*                  - enables all loggers
//	DEBUG=analysis:*         - enables all loggers in a namespace
//	DEBUG=ns1,ns2            - enables specific namespaces
//	DEBUG=ns:*,-ns:skip      - enables a namespace but excludes patterns
//
// Loggers are cheap to construct and safe for concurrent use. Output goes to
// stderr and never interferes with structured command output on stdout.
package logger

import (
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Logger is a debug logger bound to a single namespace.
type Logger struct {
	namespace string
	enabled   bool
	lastLog   time.Time
	mu        sync.Mutex
	color     string
}

var (
	debugEnv = os.Getenv("DEBUG")

	// DEBUG_COLORS=0 disables color output.
	debugColors = os.Getenv("DEBUG_COLORS") != "0"

	isTTY = term.IsTerminal(int(os.Stderr.Fd()))

	// ANSI 256-color codes readable on both light and dark backgrounds.
	colorPalette = []string{
		"\033[38;5;33m",  // Blue
		"\033[38;5;35m",  // Green
		"\033[38;5;166m", // Orange
		"\033[38;5;125m", // Purple
		"\033[38;5;37m",  // Cyan
		"\033[38;5;161m", // Magenta
		"\033[38;5;136m", // Yellow
		"\033[38;5;124m", // Red
	}

	colorReset = "\033[0m"
)

// New creates a Logger for the given namespace. The enabled state is computed
// once at construction time from the DEBUG environment variable.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   computeEnabled(namespace),
		lastLog:   time.Now(),
		color:     selectColor(namespace),
	}
}

// selectColor picks a stable color for the namespace based on its hash.
func selectColor(namespace string) string {
	if !debugColors || !isTTY {
		return ""
	}
	h := fnv.New32a()
	if _, err := h.Write([]byte(namespace)); err != nil {
		return ""
	}
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}

// Enabled returns whether this logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf prints a formatted message if the logger is enabled. The elapsed
// time since the previous log line is appended, like the npm debug package.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprintf(format, args...))
}

// Print prints a message if the logger is enabled.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprint(args...))
}

func (l *Logger) emit(message string) {
	l.mu.Lock()
	now := time.Now()
	diff := now.Sub(l.lastLog)
	l.lastLog = now
	l.mu.Unlock()

	if l.color != "" {
		fmt.Fprintf(os.Stderr, "%s%s%s %s +%s\n", l.color, l.namespace, colorReset, message, formatElapsed(diff))
	} else {
		fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, message, formatElapsed(diff))
	}
}

// formatElapsed renders a duration compactly (1ms, 2.3s, 4m).
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}

// computeEnabled reports whether a namespace matches the DEBUG patterns.
func computeEnabled(namespace string) bool {
	enabled := false
	for _, pattern := range strings.Split(debugEnv, ",") {
		pattern = strings.TrimSpace(pattern)

		// Exclusion patterns take precedence.
		if after, ok := strings.CutPrefix(pattern, "-"); ok {
			if matchPattern(namespace, after) {
				return false
			}
			continue
		}

		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

// matchPattern checks if a namespace matches a pattern with * wildcards.
func matchPattern(namespace, pattern string) bool {
	if pattern == "*" || pattern == namespace {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok && !strings.Contains(prefix, "*") {
		return strings.HasPrefix(namespace, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && !strings.Contains(suffix, "*") {
		return strings.HasSuffix(namespace, suffix)
	}
	parts := strings.SplitN(pattern, "*", 2)
	return strings.HasPrefix(namespace, parts[0]) && strings.HasSuffix(namespace, parts[1])
}
