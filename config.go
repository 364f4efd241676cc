package onig

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// Config is the file based configuration of a module.
//
// Example:
//
//	cache_size: 64
//	syntax: ruby
//	encoding: utf8
//	default_codec: iso-8859-1
//	log_level: debug
type Config struct {
	CacheSize    *int   `yaml:"cache_size"`
	Syntax       Code   `yaml:"syntax"`
	Encoding     Code   `yaml:"encoding"`
	DefaultCodec string `yaml:"default_codec"`
	LogLevel     string `yaml:"log_level"`
}

// Code is a syntax or an encoding, given either by its name or by its number.
type Code struct {
	Name  string
	Value int

	set bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Code) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a name or a number", node.Line)
	}

	*c = Code{set: true}

	if node.ShortTag() == "!!int" {
		v, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}

		c.Value = v
		return nil
	}

	c.Name = node.Value
	return nil
}

// IsSet reports whether the code was given.
func (c Code) IsSet() bool { return c.set }

// resolve returns the number of the code. Names are looked up with the given function.
func (c Code) resolve(lookup func(string) (int, error)) (int, error) {
	if c.Name == "" {
		return c.Value, nil
	}

	return lookup(c.Name)
}

// LoadConfig reads a YAML configuration. Unknown keys are rejected.
// An empty document results in an empty configuration.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.CacheSize != nil && *cfg.CacheSize < 0 {
		return fmt.Errorf("invalid configuration: cache_size must be >= 0, got %d", *cfg.CacheSize)
	}
	if cfg.Syntax.IsSet() {
		if _, err := cfg.Syntax.resolve(lookupSyntax); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if cfg.Encoding.IsSet() {
		if _, err := cfg.Encoding.resolve(lookupEncoding); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if cfg.DefaultCodec != "" {
		if _, err := lowlevel.LookupCodec(cfg.DefaultCodec); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if cfg.LogLevel != "" {
		if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return nil
}

// apply copies the configured values into the settings.
func (cfg *Config) apply(s *settings) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	if cfg.CacheSize != nil {
		s.cacheSize = *cfg.CacheSize
	}
	if cfg.Syntax.IsSet() {
		s.syntax, _ = cfg.Syntax.resolve(lookupSyntax)
	}
	if cfg.Encoding.IsSet() {
		s.encoding, _ = cfg.Encoding.resolve(lookupEncoding)
	}
	if cfg.DefaultCodec != "" {
		s.codec = cfg.DefaultCodec
	}
	if cfg.LogLevel != "" && s.logger == nil {
		level, _ := zapcore.ParseLevel(cfg.LogLevel)

		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)

		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("cannot create logger: %w", err)
		}

		s.logger = l
	}

	return nil
}
