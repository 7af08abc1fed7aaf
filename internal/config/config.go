// Package config holds engine-wide configuration, trimmed from the
// teacher's analyzer/LSP mode flags (internal/config in funvibe-funxy) down
// to the handful of toggles an embeddable expression engine actually needs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineOptions configures the evaluator and CLI (SPEC_FULL.md §1
// "Configuration"). Only MaxRecursionDepth is passed on to the engine.
type EngineOptions struct {
	// StrictEqualityWarnings is decoded from the config file but is not
	// passed to the engine: `=`/`!=` across distinct kinds returns Null
	// without a Warning whether or not it is set. Off by default.
	StrictEqualityWarnings bool `yaml:"strict_equality_warnings"`

	// MaxRecursionDepth bounds parser recursion (mirrors
	// parser.MaxRecursionDepth); zero means use the parser's built-in default.
	MaxRecursionDepth int `yaml:"max_recursion_depth"`

	// DefaultTimezone is decoded from the config file but is not passed to
	// the engine; built-ins such as time("10:00:00") keep local-only
	// literals local whatever it is set to. Empty by default.
	DefaultTimezone string `yaml:"default_timezone"`
}

// Default returns the engine's out-of-the-box configuration.
func Default() EngineOptions {
	return EngineOptions{MaxRecursionDepth: 500}
}

// Load reads EngineOptions from a YAML file, starting from Default() so an
// incomplete config file only overrides the fields it sets.
func Load(path string) (EngineOptions, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return opts, nil
}
