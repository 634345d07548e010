// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Vocabulary        *string  `toml:"vocabulary"`
	Auto              *bool    `toml:"auto"`
	Dictation         *bool    `toml:"dictation"`
	DictationChapters *string  `toml:"dictation-chapters"`
	ClearOnWrong      *bool    `toml:"clear-on-wrong"`
	Sound             *bool    `toml:"sound"`
	EastAsian         *bool    `toml:"east-asian"`
	MusicMarker       *string  `toml:"music-marker"`
	ReviewWindow      *int     `toml:"review-window"`
	ReviewFactor      *float64 `toml:"review-factor"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
