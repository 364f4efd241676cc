package onig

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// defaultCacheSize is the number of compiled patterns kept by a module.
const defaultCacheSize = 32

// settings contains the configuration of a module.
type settings struct {
	cacheSize int
	syntax    int
	encoding  int    // used for byte patterns only
	codec     string // empty: keep the current default codec
	logger    *zap.Logger
}

func defaultSettings() settings {
	return settings{
		cacheSize: defaultCacheSize,
		syntax:    lowlevel.SyntaxDefault,
		encoding:  lowlevel.EncodingUnspecified,
	}
}

// Option configures a module created with `NewModule`.
type Option func(s *settings) error

// WithCacheSize sets the number of compiled patterns, that are cached. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(s *settings) error {
		if n < 0 {
			return fmt.Errorf("cache size must be >= 0, got %d", n)
		}

		s.cacheSize = n
		return nil
	}
}

// WithDefaultSyntax sets the syntax of patterns compiled without an explicit syntax.
func WithDefaultSyntax(code int) Option {
	return func(s *settings) error {
		s.syntax = code
		return nil
	}
}

// WithDefaultEncoding sets the encoding of byte patterns compiled without an explicit encoding.
func WithDefaultEncoding(code int) Option {
	return func(s *settings) error {
		s.encoding = code
		return nil
	}
}

// WithDefaultCodec sets the codec, that converts subjects with another type than the pattern.
// The codec is shared by all modules.
func WithDefaultCodec(name string) Option {
	return func(s *settings) error {
		if _, err := lowlevel.LookupCodec(name); err != nil {
			return err
		}

		s.codec = name
		return nil
	}
}

// WithLogger sets the logger of the module and of the binding.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) error {
		s.logger = l
		return nil
	}
}

// WithConfig applies a configuration loaded with `LoadConfig`.
// Options given after this one override its values.
func WithConfig(cfg *Config) Option {
	return func(s *settings) error {
		if cfg == nil {
			return nil
		}

		return cfg.apply(s)
	}
}
