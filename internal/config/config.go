// Package config loads the qnn tool configuration file.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration file (~/.config/qnn/config.yaml).
// Fields left empty or zero fall back to Default values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Output is the fragment rendering of the lower command: text or json.
	Output string `yaml:"output"`

	// Workers bounds how many functions the canonicalize pass lowers at once.
	Workers int `yaml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Output:    "text",
		Workers:   runtime.NumCPU(),
	}
}

// Path returns the default config file location, or "" when the user config
// directory is unknown.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qnn", "config.yaml")
}

// Load reads path and overlays it on Default. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.merge(file)
	return cfg, cfg.Validate()
}

func (c *Config) merge(o Config) {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("config: log_format %q must be text or json", c.LogFormat)
	}
	switch c.Output {
	case "text", "json":
	default:
		return errors.Errorf("config: output %q must be text or json", c.Output)
	}
	if c.Workers < 1 {
		return errors.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	return nil
}
