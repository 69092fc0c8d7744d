// Package config holds the translation settings of the fort2jul command,
// loaded from a TOML or YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the complete translation configuration.
type Config struct {
	// OutputDir receives the translated program and the support file.
	// Empty means the directory of the input file.
	OutputDir string `toml:"output_dir" yaml:"output_dir"`
	// MacrosFile is the name of the runtime support file the program includes.
	MacrosFile string `toml:"macros_file" yaml:"macros_file"`
	// Indent is written once per nesting level.
	Indent string `toml:"indent" yaml:"indent"`
	// Extension of the translated program file.
	Extension string `toml:"extension" yaml:"extension"`
	// Strict fails translations that record warnings.
	Strict bool         `toml:"strict" yaml:"strict"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Report ReportConfig `toml:"report" yaml:"report"`
}

// LogConfig selects the level and handler of the command's logger.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`   // debug, info, warn or error.
	Format string `toml:"format" yaml:"format"` // text or json.
}

// ReportConfig holds diagnostic report settings.
type ReportConfig struct {
	// Path of the YAML diagnostics report. Empty disables the report.
	Path string `toml:"path" yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads the configuration file at path. Environment variables in path
// are expanded. The format follows the file extension: .yaml and .yml are
// YAML, anything else TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.OutputDir = os.ExpandEnv(cfg.OutputDir)
	cfg.Report.Path = os.ExpandEnv(cfg.Report.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MacrosFile == "" {
		c.MacrosFile = "macros.jl"
	}
	if c.Indent == "" {
		c.Indent = "\t"
	}
	if c.Extension == "" {
		c.Extension = ".jl"
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, want text or json", c.Log.Format)
	}
	if strings.ContainsAny(c.MacrosFile, `/\`) {
		return fmt.Errorf("macros file %q must be a file name, not a path", c.MacrosFile)
	}
	return nil
}

// ParseLevel converts a level name to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}
