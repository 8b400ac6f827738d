// Package config loads the demo CLI's optional .erltokrc.yaml settings.
// None of this affects the lexer package itself (it only configures how
// the CLI presents tokens).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WhitespaceMode selects how the CLI reports whitespace tokens. The core
// lexer always tokenizes per contiguous run; when PerChar is requested
// the CLI re-splits run tokens into one-character tokens for display,
// satisfying callers that want the finer-grained presentation.
type WhitespaceMode string

const (
	WhitespacePerRun  WhitespaceMode = "per-run"
	WhitespacePerChar WhitespaceMode = "per-char"
)

// OutputFormat selects how the CLI renders tokens.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config is the decoded form of .erltokrc.yaml.
type Config struct {
	Whitespace WhitespaceMode `yaml:"whitespace"`
	Output     OutputFormat   `yaml:"output"`
}

// Default returns the CLI's built-in configuration.
func Default() Config {
	return Config{Whitespace: WhitespacePerRun, Output: OutputText}
}

// Load reads and parses a YAML config file at path, falling back to
// Default() for any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Whitespace == "" {
		cfg.Whitespace = WhitespacePerRun
	}
	if cfg.Output == "" {
		cfg.Output = OutputText
	}
	return cfg, nil
}
