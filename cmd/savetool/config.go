package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is read from a YAML file; command-line flags override it.
type Config struct {
	Backups  string `yaml:"backups"`
	Keep     int    `yaml:"keep"`
	Catalog  string `yaml:"catalog"`
	LogLevel string `yaml:"log_level"`
}

const (
	defaultConfigName = "savetool.yaml"
	defaultKeep       = 10
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "savetool", defaultConfigName)
}

// loadConfig reads path. A missing file is not an error unless required.
func loadConfig(path string, required bool) (*Config, error) {
	cfg := &Config{Keep: defaultKeep, LogLevel: "info"}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	} else if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Keep < 0 {
		return nil, fmt.Errorf("%s: keep must not be negative", path)
	}
	base := filepath.Dir(path)
	cfg.Backups = resolvePath(base, cfg.Backups)
	cfg.Catalog = resolvePath(base, cfg.Catalog)
	return cfg, nil
}

// resolvePath makes paths in the config relative to the config file.
func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}
