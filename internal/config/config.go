package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the process configuration, loaded from TOML. Every field has a
// usable default so an empty file (or none at all) still boots a match.
type Config struct {
	TickRate  int    `toml:"tick_rate"` // simulation frames per second
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // "console" or "json"

	Level    LevelConfig    `toml:"level"`
	Scripts  ScriptsConfig  `toml:"scripts"`
	Save     SaveConfig     `toml:"save"`
	Observer ObserverConfig `toml:"observer"`
}

type LevelConfig struct {
	Path string `toml:"path"`
}

type ScriptsConfig struct {
	Dir string `toml:"dir"`
}

type SaveConfig struct {
	Path string `toml:"path"`
	// Resume loads the newest save on boot instead of starting fresh.
	Resume bool `toml:"resume"`
	// AutosaveSeconds <= 0 disables the autosave loop.
	AutosaveSeconds int `toml:"autosave_seconds"`
	// AutosaveKeep bounds how many autosave rows survive pruning.
	AutosaveKeep int `toml:"autosave_keep"`
}

type ObserverConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	IntervalMS int    `toml:"interval_ms"`
}

func defaults() Config {
	return Config{
		TickRate:  60,
		LogLevel:  "info",
		LogFormat: "console",
		Level:    LevelConfig{Path: "assets/levels/arena.yaml"},
		Scripts:  ScriptsConfig{Dir: "assets/scripts"},
		Save: SaveConfig{
			Path:            "saves.db",
			AutosaveSeconds: 60,
			AutosaveKeep:    5,
		},
		Observer: ObserverConfig{
			Addr:       "127.0.0.1:7777",
			IntervalMS: 250,
		},
	}
}

// Load reads the config file at path; the FPSIM_CONFIG environment variable
// overrides the path when set. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if env := os.Getenv("FPSIM_CONFIG"); env != "" {
		path = env
	}
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.TickRate <= 0 {
		return cfg, fmt.Errorf("config: tick_rate must be positive, got %d", cfg.TickRate)
	}
	return cfg, nil
}
