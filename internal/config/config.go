// Package config loads tide-indent settings: defaults, then the TOML file,
// then command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/tide-indent/internal/classify"
	"github.com/bethropolis/tide-indent/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"`
	Indent IndentConfig  `toml:"indent"`
}

// IndentConfig controls the engine and how its decisions become whitespace.
type IndentConfig struct {
	TabWidth int `toml:"tab_width"`
	// IndentWidth is the indent unit; 0 means TabWidth.
	IndentWidth int  `toml:"indent_width"`
	UseTabs     bool `toml:"use_tabs"`
	// ScanLimit caps backward scans; 0 uses the grammar's limit.
	ScanLimit   int      `toml:"scan_limit"`
	Classifier  string   `toml:"classifier"`
	GrammarDirs []string `toml:"grammar_dirs"`
}

// NewDefaultConfig creates a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Indent: IndentConfig{
			TabWidth:   DefaultTabWidth,
			ScanLimit:  DefaultScanLimit,
			Classifier: string(classify.ModeAuto),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/tide-indent/config.toml, or "" when
// no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) error {
	metadata, err := toml.DecodeFile(filePath, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		logger.DebugTagf("config", "Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	logger.DebugTagf("config", "Loaded configuration from: %s", filePath)
	return nil
}

// Validate resets out-of-range numbers to defaults and rejects unknown
// classifier names.
func (c *Config) Validate() error {
	defaults := NewDefaultConfig()

	if c.Indent.TabWidth <= 0 {
		c.Indent.TabWidth = defaults.Indent.TabWidth
	}
	if c.Indent.IndentWidth < 0 {
		c.Indent.IndentWidth = 0
	}
	if c.Indent.ScanLimit < 0 {
		c.Indent.ScanLimit = defaults.Indent.ScanLimit
	}
	mode, err := classify.ParseMode(c.Indent.Classifier)
	if err != nil {
		return fmt.Errorf("invalid [indent] classifier: %w", err)
	}
	c.Indent.Classifier = string(mode)

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	return nil
}

// Unit returns the indent unit width.
func (c *IndentConfig) Unit() int {
	if c.IndentWidth > 0 {
		return c.IndentWidth
	}
	return c.TabWidth
}

// Load builds the configuration from defaults, the file at path (the default
// location when path is empty) and the flags that were set.
func Load(path string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
