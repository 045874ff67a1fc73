// Package config defines the configuration types and defaults for jrefactor.
package config

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxPasses mirrors the engine's pass budget.
const DefaultMaxPasses = 10

// Config is the top-level configuration.
type Config struct {
	// Rules enables or disables rules by name. Rules not listed run.
	Rules     map[string]bool `yaml:"rules" toml:"rules"`
	MaxPasses int             `yaml:"max_passes" toml:"max_passes"`
	Files     FilesConfig     `yaml:"files" toml:"files"`
	// Jobs caps the number of files rewritten in parallel. Zero means
	// GOMAXPROCS.
	Jobs int `yaml:"jobs" toml:"jobs"`
}

// FilesConfig selects the files considered when a directory is walked.
type FilesConfig struct {
	Include []string `yaml:"include" toml:"include"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		MaxPasses: DefaultMaxPasses,
		Files: FilesConfig{
			Include: []string{"**/*.java"},
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.MaxPasses < 1 {
		return fmt.Errorf("max_passes must be at least 1, got %d", c.MaxPasses)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if len(c.Files.Include) == 0 {
		return fmt.Errorf("files.include must not be empty")
	}
	for _, group := range [][]string{c.Files.Include, c.Files.Exclude} {
		for _, pattern := range group {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid file pattern %q", pattern)
			}
		}
	}
	return nil
}

// LogValue implements slog.LogValuer.
func (c *Config) LogValue() slog.Value {
	var disabled []string
	for _, name := range slices.Sorted(maps.Keys(c.Rules)) {
		if !c.Rules[name] {
			disabled = append(disabled, name)
		}
	}
	return slog.GroupValue(
		slog.Int("max_passes", c.MaxPasses),
		slog.Int("jobs", c.Jobs),
		slog.Any("include", c.Files.Include),
		slog.Any("exclude", c.Files.Exclude),
		slog.Any("disabled_rules", disabled),
	)
}
