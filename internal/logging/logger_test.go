package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"DEBUG":   logrus.DebugLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"trace":   logrus.TraceLevel,
		"":        logrus.InfoLevel,
		"chatty":  logrus.InfoLevel,
	}
	for in, want := range tests {
		if got := GetLevel(in); got != want {
			t.Errorf("GetLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	base := filepath.Join(t.TempDir(), "logs", "wod")
	closer, err := Setup(LoggerSetupParams{LogFileName: base, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	logrus.WithField("block", "EMOM 10").Debug("timer started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(base + ".log")
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "timer started") || !strings.Contains(string(data), "EMOM 10") {
		t.Errorf("log file content = %q", data)
	}
}

func TestSetup_NoFileDiscards(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	closer, err := Setup(LoggerSetupParams{LogLevel: "info"})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if logrus.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", logrus.GetLevel())
	}
}

func TestSetup_UnwritableDirectory(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	// A regular file where the log directory should be.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	closer, err := Setup(LoggerSetupParams{LogFileName: filepath.Join(blocker, "wod"), LogLevel: "info"})
	if err == nil {
		t.Fatal("Setup() should report a log directory it cannot create")
	}
	if closer == nil {
		t.Fatal("Setup() returned a nil closer")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if logrus.StandardLogger().Out != io.Discard {
		t.Error("logs should be discarded when the file cannot be opened")
	}
}
