//go:build !integration

package logger

import "testing"

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		pattern   string
		want      bool
	}{
		{"wildcard all", "analysis:schema", "*", true},
		{"exact match", "analysis:schema", "analysis:schema", true},
		{"no match", "analysis:schema", "simulation:graph", false},
		{"prefix wildcard", "analysis:schema", "analysis:*", true},
		{"prefix wildcard no match", "simulation:graph", "analysis:*", false},
		{"suffix wildcard", "analysis:schema", "*:schema", true},
		{"middle wildcard", "analysis:schema", "analysis*schema", true},
		{"empty pattern", "analysis:schema", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchPattern(tt.namespace, tt.pattern); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.namespace, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestNewLoggerDisabledByDefault(t *testing.T) {
	l := New("test:namespace")
	if l.Enabled() && debugEnv == "" {
		t.Error("logger should be disabled when DEBUG is unset")
	}

	// Disabled loggers must be no-ops.
	l.Printf("this should not panic: %d", 42)
	l.Print("neither should this")
}
