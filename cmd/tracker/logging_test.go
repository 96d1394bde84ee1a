package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/rickgao/price-tracker/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)

		logger.Debug("hidden")
		logger.Info("updated snapshot", "asset", "bitcoin")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 {
			t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if rec["asset"] != "bitcoin" || rec["msg"] != "updated snapshot" {
			t.Errorf("record = %v", rec)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf)

		logger.Debug("refresh cycle starting", "assets", 3)

		if !strings.Contains(buf.String(), "assets=3") {
			t.Errorf("output = %q, want text key=value", buf.String())
		}
	})
}
