// Package config loads the optional compiler configuration file. Unlike
// AILANG's effect-whitelist config, this module's flags name pipeline
// settings (stdlib preloading, diagnostic volume) rather than runtime
// capabilities; of these, only Color is acted on (by cmd/langc). The
// loading idiom (an optional YAML file via
// gopkg.in/yaml.v3, sane zero-value defaults, no error when absent) is
// carried unchanged from the teacher.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of langc.yaml. Every field has a
// usable zero value, so a missing or empty file is equivalent to
// Default().
type Config struct {
	// StdlibPreload is read from the stdlib-preload key. The checker
	// does not consult it: Check always preloads the fixed set
	// print/len/concat/toString.
	StdlibPreload []string `yaml:"stdlib-preload"`

	// MaxDiagnostics is read from the max-diagnostics key. Neither
	// Check nor cmd/langc applies it; every diagnostic is returned
	// and printed.
	MaxDiagnostics int `yaml:"max-diagnostics"`

	// Color controls whether cmd/langc emits ANSI color codes.
	// Defaults to true; set false for plain output (e.g. CI logs).
	Color *bool `yaml:"color"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	enabled := true
	return &Config{
		StdlibPreload:  nil,
		MaxDiagnostics: 0,
		Color:          &enabled,
	}
}

// ColorEnabled reports whether colored output should be used,
// defaulting to true when unset.
func (c *Config) ColorEnabled() bool {
	if c == nil || c.Color == nil {
		return true
	}
	return *c.Color
}

// Load reads and parses path. A missing file is not an error — it
// yields Default(). A present-but-malformed file returns the yaml
// parse error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
