package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closeLog, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeLog()
	logger.Info("catalog: loaded")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"catalog: loaded"`) {
		t.Errorf("log output missing message: %s", data)
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closeLog, err := New(Config{Level: "loud", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeLog()
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("info message should be written")
	}
}

func TestNewCloseReleasesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closeLog, err := New(Config{Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("before close")
	_ = logger.Sync()
	closeLog()

	// The file stays readable and removable once released.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove log after close: %v", err)
	}
}

func TestNewStderrCloseIsNoop(t *testing.T) {
	logger, closeLog, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	closeLog()
	logger.Info("still writes to stderr")
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}
