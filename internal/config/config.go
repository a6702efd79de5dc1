package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ArchiveRoot string `toml:"archive_root"`
	User        string `toml:"user"`
	DBPath      string `toml:"db_path"`
	OutputDir   string `toml:"output_dir"`
	Workers     int    `toml:"workers"`
	Timezone    string `toml:"timezone"`
	MetricsFile string `toml:"metrics_file"`
	LogLevel    string `toml:"log_level"`
}

// Load reads ~/.config/fbq/config.toml over the defaults. A missing file is
// not an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(home, ".config", "fbq", "config.toml"), home)
}

// LoadFrom is Load with an explicit config path and home directory.
func LoadFrom(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		DBPath:    filepath.Join(home, ".config", "fbq", "fbq.db"),
		OutputDir: ".",
		LogLevel:  "info",
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ArchiveRoot = expandHome(cfg.ArchiveRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	cfg.MetricsFile = expandHome(cfg.MetricsFile, home)

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone; empty means the machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("log_level %q: %w", s, err)
	}
	return l, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
