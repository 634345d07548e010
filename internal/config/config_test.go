package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Auto != nil {
		t.Fatalf("expected unset values")
	}
}

func TestLoadConfigPracticeAndLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[practice]
auto = true
music-marker = "♫"
review-window = 5
dictation-chapters = "1,3"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Auto == nil || !*cfg.Practice.Auto {
		t.Fatalf("expected auto = true")
	}
	if cfg.Practice.Dictation != nil {
		t.Fatalf("expected dictation unset")
	}
	if cfg.Practice.MusicMarker == nil || *cfg.Practice.MusicMarker != "♫" {
		t.Fatalf("unexpected music marker")
	}
	if cfg.Practice.ReviewWindow == nil || *cfg.Practice.ReviewWindow != 5 {
		t.Fatalf("unexpected review window")
	}
	if cfg.Practice.DictationChapters == nil || *cfg.Practice.DictationChapters != "1,3" {
		t.Fatalf("unexpected dictation chapters")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadConfigRejectsInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice\nauto = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	if got := DefaultConfigPath(); got != filepath.Join(dir, "vocatype", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join(dir, "vocatype", "vocatype.db") {
		t.Fatalf("unexpected db path %s", got)
	}
}
