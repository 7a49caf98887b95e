// Package config provides configuration loading for the architecture tools.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/genarch/arch"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration parameters.
type Config struct {
	Architecture arch.Params       `yaml:"architecture"`
	Enumeration  EnumerationConfig `yaml:"enumeration"`
	Environment  EnvironmentConfig `yaml:"environment"`
	Output       OutputConfig      `yaml:"output"`
}

// EnumerationConfig bounds an enumeration run.
type EnumerationConfig struct {
	Workers       int           `yaml:"workers"`        // 0 = GOMAXPROCS
	MaxCandidates int64         `yaml:"max_candidates"` // 0 = unbounded
	Timeout       time.Duration `yaml:"timeout"`        // 0 = no deadline
}

// EnvironmentConfig controls random environment generation.
type EnvironmentConfig struct {
	Count    int   `yaml:"count"`
	Seed     int64 `yaml:"seed"`
	Alphabet []int `yaml:"alphabet"`
	NK       bool  `yaml:"nk"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	SingleFile bool   `yaml:"single_file"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived fills values left at zero.
func (c *Config) computeDerived() {
	if c.Enumeration.Workers <= 0 {
		c.Enumeration.Workers = runtime.GOMAXPROCS(0)
	}
	if len(c.Environment.Alphabet) == 0 {
		c.Environment.Alphabet = []int{0, 1}
	}
	slices.Sort(c.Environment.Alphabet)
	c.Environment.Alphabet = slices.Compact(c.Environment.Alphabet)
}

// Validate checks the architecture block and the environment alphabet.
func (c *Config) Validate() error {
	if err := c.Architecture.Validate(); err != nil {
		return err
	}
	if c.Enumeration.MaxCandidates < 0 {
		return fmt.Errorf("%w: enumeration.max_candidates %d is negative", ErrInvalidConfig, c.Enumeration.MaxCandidates)
	}
	if c.Enumeration.Timeout < 0 {
		return fmt.Errorf("%w: enumeration.timeout %s is negative", ErrInvalidConfig, c.Enumeration.Timeout)
	}
	if c.Environment.Count < 0 {
		return fmt.Errorf("%w: environment.count %d is negative", ErrInvalidConfig, c.Environment.Count)
	}
	for _, v := range c.Environment.Alphabet {
		// Environment files write one digit per value.
		if v < 0 || v > 9 {
			return fmt.Errorf("%w: alphabet value %d is not a single digit", ErrInvalidConfig, v)
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
