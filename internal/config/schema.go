// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for solarbot.
package config

import "gopkg.in/yaml.v3"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Log controls the global logging behavior.
	Log LogConfig `yaml:"log,omitempty"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "channel.telegram").
	// Only listed modules are loaded; compiled-in modules without an
	// entry stay dormant.
	Modules map[string]yaml.Node `yaml:"modules"`
}

// LogConfig controls log output.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, or error.
	// Defaults to info. DEBUG=true in the environment forces debug.
	Level string `yaml:"level,omitempty"`

	// Format selects the handler: "text" (default) or "json".
	Format string `yaml:"format,omitempty"`
}
