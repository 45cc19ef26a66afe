// Package config provides configuration management for wikipath.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from YAML.
type Config struct {
	Graph    GraphFileConfig `yaml:"graph"`
	Metadata MetadataConfig  `yaml:"metadata"`
	Search   SearchConfig    `yaml:"search"`
}

// GraphFileConfig describes where and how to open the memory-mapped graph
// file (component A).
type GraphFileConfig struct {
	// Path to the .graph file produced by the indexer.
	Path string `yaml:"path" validate:"required"`
	// LockIntoMemory requests mlock(2) on the mapped region, so the whole
	// graph stays resident instead of being paged in on first touch.
	LockIntoMemory bool `yaml:"lock_into_memory"`
}

// MetadataConfig describes where and how to open the metadata file
// (component B).
type MetadataConfig struct {
	// Path to the .metadata file produced by the indexer.
	Path string `yaml:"path" validate:"required"`
	// LockIntoMemory mirrors GraphFileConfig.LockIntoMemory.
	LockIntoMemory bool `yaml:"lock_into_memory"`
}

// SearchConfig tunes the demo binaries' default search behavior.
type SearchConfig struct {
	// MaxPathsListed caps how many annotated paths wikipath-search prints
	// for a single query before truncating.
	MaxPathsListed int `yaml:"max_paths_listed" validate:"gt=0"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphFileConfig{
			Path:           "data/wikipedia.graph",
			LockIntoMemory: false,
		},
		Metadata: MetadataConfig{
			Path:           "data/wikipedia.metadata",
			LockIntoMemory: false,
		},
		Search: SearchConfig{
			MaxPathsListed: 10,
		},
	}
}

// LoadFromYAML loads configuration from a YAML file, overlaying it on top
// of DefaultConfig, and validates the result.
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is controlled by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
