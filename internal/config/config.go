package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Config holds the user settings read from zyxt.yaml or zyxt.toml.
type Config struct {
	// LogLevel is one of silent, error, warn, verbose, trace.
	LogLevel string `yaml:"loglevel" toml:"loglevel"`

	// Color is auto, always or never. Auto enables color on terminals.
	Color string `yaml:"color" toml:"color"`

	// HistoryFile is the REPL history path. Relative paths are resolved
	// against the home directory.
	HistoryFile string `yaml:"history_file" toml:"history-file"`

	// Timings prints per-stage durations after each run.
	Timings bool `yaml:"timings" toml:"timings"`

	// MaxCallDepth bounds procedure recursion; 0 means the default.
	MaxCallDepth int `yaml:"max_call_depth" toml:"max-call-depth"`
}

const DefaultMaxCallDepth = 10000

var validLogLevels = []string{"silent", "error", "warn", "verbose", "trace"}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		LogLevel:     "error",
		Color:        "auto",
		HistoryFile:  DefaultHistoryFile,
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Load reads a config file. The format follows the extension: .toml files are
// TOML, anything else YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes config content. The path selects the format and is used in
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(path string) error {
	valid := false
	for _, l := range validLogLevels {
		if c.LogLevel == l {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("%s: unknown loglevel %q (want one of %s)", path, c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%s: color must be auto, always or never, got %q", path, c.Color)
	}
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("%s: max_call_depth must not be negative", path)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "error"
	}
	if c.Color == "" {
		c.Color = "auto"
	}
	if c.MaxCallDepth == 0 {
		c.MaxCallDepth = DefaultMaxCallDepth
	}
	if c.HistoryFile == "" {
		c.HistoryFile = DefaultHistoryFile
	}
}

// Discover returns the first config file found in dir, or "" if none exists.
func Discover(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadFrom loads the config file in dir, falling back to defaults.
func LoadFrom(dir string) (*Config, error) {
	path := Discover(dir)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// HistoryPath resolves the REPL history file.
func (c *Config) HistoryPath() string {
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return c.HistoryFile
	}
	return filepath.Join(home, c.HistoryFile)
}
