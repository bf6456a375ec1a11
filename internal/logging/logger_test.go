package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLoggerWritesJSONToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "policyscan.log")

	config := DefaultConfig()
	config.Console = false
	config.FilePath = logPath

	logger, err := NewLogger(config)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}

	logger.Info("crawl started", "seeds", 3)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["msg"] != "crawl started" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["seeds"] != float64(3) {
		t.Errorf("seeds = %v", entry["seeds"])
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "policyscan.log")

	config := DefaultConfig()
	config.Console = false
	config.FilePath = logPath
	config.Level = slog.LevelWarn

	logger, err := NewLogger(config)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}

	logger.Info("should be suppressed")
	logger.Warn("should be written")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got: %s", data)
	}
	if entry["msg"] != "should be written" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	config := DefaultConfig()

	logger, err := NewLogger(config)
	if err != nil {
		t.Fatalf("NewLogger() returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("NewLogger() returned nil logger")
	}
}
