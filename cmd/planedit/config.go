package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds persistent editor settings
type Config struct {
	ExportFormat string  `toml:"export_format"` // "png" or "svg"
	LastDir      string  `toml:"last_dir"`
	Palette      string  `toml:"palette,omitempty"` // catalog file, empty for the built-in one
	LogFile      string  `toml:"log_file"`
	LogLevel     string  `toml:"log_level"`
	Grid         bool    `toml:"grid"`
	Minimap      bool    `toml:"minimap"`
	Zoom         float64 `toml:"zoom"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	logFile := ".planedit.log"
	if home, err := os.UserHomeDir(); err == nil {
		logFile = filepath.Join(home, ".planedit.log")
	}
	return Config{
		ExportFormat: "png",
		LastDir:      cwd,
		LogFile:      logFile,
		LogLevel:     "info",
		Grid:         true,
		Minimap:      true,
		Zoom:         1,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planedit"
	}
	return filepath.Join(home, ".planedit")
}

// LoadConfig reads path over the defaults. A missing or unreadable file
// yields the defaults; out-of-range values fall back one key at a time.
func LoadConfig(path string) Config {
	def := DefaultConfig()
	cfg := def
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return def
	}
	if cfg.ExportFormat != "png" && cfg.ExportFormat != "svg" {
		cfg.ExportFormat = def.ExportFormat
	}
	if cfg.LastDir == "" {
		cfg.LastDir = def.LastDir
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = def.Zoom
	}
	return cfg
}

// SaveConfig writes cfg to path as TOML.
func SaveConfig(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	io.WriteString(f, "# planedit configuration\n")
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// logLevel maps a config level name to a slog level.
func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// openLog opens the log file named by cfg. The terminal belongs to the
// editor, so without a file nothing is logged.
func openLog(cfg Config) (*slog.Logger, io.Closer) {
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})
	return slog.New(h), f
}
