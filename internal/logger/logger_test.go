package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("Expected warn level, got %v", Logger.GetLevel())
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	data, err := os.ReadFile(filepath.Join(logDir, "tachoplan.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "Test debug message") {
		t.Error("Debug message should be filtered at warn level")
	}
	if !strings.Contains(string(data), "Test warning message") {
		t.Error("Warning message missing from log file")
	}
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("Expected debug level, got %v", Logger.GetLevel())
	}
}

func TestInitJSON(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir, JSON: true}); err != nil {
		t.Fatalf("Failed to initialize JSON logger: %v", err)
	}

	Warn("plan served", "segments", 3)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "tachoplan.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"segments":3`) {
		t.Errorf("Expected JSON log line, got %q", string(data))
	}
}

func TestWithoutInit(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// Must not panic before Init
	Info("ignored")
	With("component", "test").Info("ignored")
}
