package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		logFunc   func(l *slog.Logger)
		checkFunc func(t *testing.T, output string)
	}{
		{
			name:    "text logger at info level",
			config:  Config{Level: "info", Format: "text", Output: "stdout"},
			logFunc: func(l *slog.Logger) { l.Info("review created", "id", 42) },
			checkFunc: func(t *testing.T, output string) {
				if !strings.Contains(output, "level=INFO") || !strings.Contains(output, "review created") {
					t.Errorf("expected text output with info level and message, got: %s", output)
				}
			},
		},
		{
			name:    "json logger at debug level",
			config:  Config{Level: "debug", Format: "json", Output: "stdout"},
			logFunc: func(l *slog.Logger) { l.Debug("review created") },
			checkFunc: func(t *testing.T, output string) {
				var entry map[string]any
				if err := json.Unmarshal([]byte(output), &entry); err != nil {
					t.Fatalf("failed to unmarshal JSON log: %v, output: %s", err, output)
				}
				if entry["level"] != "DEBUG" || entry["msg"] != "review created" {
					t.Errorf("expected JSON debug entry, got: %v", entry)
				}
			},
		},
		{
			name:    "info logger suppresses debug",
			config:  Config{Level: "info", Format: "text", Output: "stdout"},
			logFunc: func(l *slog.Logger) { l.Debug("hidden") },
			checkFunc: func(t *testing.T, output string) {
				if output != "" {
					t.Errorf("expected no output for debug message at info level, got: %s", output)
				}
			},
		},
		{
			name:    "unknown level falls back to info",
			config:  Config{Level: "chatty", Format: "text", Output: "stdout"},
			logFunc: func(l *slog.Logger) { l.Info("still logged") },
			checkFunc: func(t *testing.T, output string) {
				if !strings.Contains(output, "still logged") {
					t.Errorf("expected info message with fallback level, got: %s", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(tt.config, &buf)
			tt.logFunc(l)
			tt.checkFunc(t, buf.String())
		})
	}
}
