package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/vocatype/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, closer, err := New(config.LogConfig{Level: "debug", Format: "json", File: path}, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
	logger.WithField("word", "apple").Debug("completed")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"word":"apple"`) {
		t.Fatalf("expected json field in log, got %s", data)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "loud"}, false); err == nil {
		t.Fatalf("expected level error")
	}
	if _, _, err := New(config.LogConfig{Format: "xml"}, false); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestNewDefaultsToStderr(t *testing.T) {
	logger, closer, err := New(config.LogConfig{}, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
