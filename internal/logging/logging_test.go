package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/taskgenius/internal/model"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewDefault_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(&buf, "warn")

	log.Info("hidden")
	log.Warn("shown", slog.String("error", "boom"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "error=boom") {
		t.Fatalf("output = %q", out)
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	log, closer, err := New(model.LogConfig{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	log.Debug("request completed", slog.String("path", "/api/v1/projects"))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "request completed") {
		t.Fatalf("log file = %q", data)
	}
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	log, closer, err := New(model.LogConfig{Level: "info"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	log.Info("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}
