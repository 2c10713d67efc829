package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/circles")
	want := filepath.Join("/tmp/circles", "logs", "circles.log")
	if got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "normal mode drops debug", debug: false, wantDebug: false},
		{name: "debug mode keeps debug", debug: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Init(Config{Debug: tt.debug, Output: &buf}); err != nil {
				t.Fatalf("Init() error = %v", err)
			}

			Debug("debug line")
			Warn("warn line", "key", "value")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v (output %q)", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "warn line") || !strings.Contains(out, "key=value") {
				t.Errorf("warn line missing or lacks keyvals: %q", out)
			}
		})
	}
}

func TestWith(t *testing.T) {
	Logger = nil
	if With("component", "test") != nil {
		t.Error("With() should return nil before Init")
	}

	var buf bytes.Buffer
	if err := Init(Config{Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	With("component", "store").Warn("hello")
	if !strings.Contains(buf.String(), "component=store") {
		t.Errorf("child logger output missing keyvals: %q", buf.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
