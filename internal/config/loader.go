package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables consulted by Load.
const (
	EnvPrefix     = "PULSO_"
	EnvConfigFile = "PULSO_CONFIG"
	EnvDotenvFile = "PULSO_DOTENV"
	defaultDotenv = ".env"
)

// LoadOption customises Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file   string
	dotenv string
}

// WithFile loads the YAML file at path, taking precedence over PULSO_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.file = path
		}
	}
}

// WithDotenv reads path instead of ".env". An empty path disables dotenv loading.
func WithDotenv(path string) LoadOption {
	return func(o *loadOptions) {
		o.dotenv = path
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from WithFile or PULSO_CONFIG
//  3. env (prefix PULSO_), after merging a .env file when present
func Load(_ context.Context, opts ...LoadOption) (*Config, error) {
	o := loadOptions{
		file:   os.Getenv(EnvConfigFile),
		dotenv: defaultDotenv,
	}
	if p, ok := os.LookupEnv(EnvDotenvFile); ok {
		o.dotenv = p
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := New()
	k := koanf.New(".")

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, o.file, err)
		}
	}

	// godotenv never overrides variables already present in the process.
	if o.dotenv != "" {
		if err := godotenv.Load(o.dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, o.dotenv, err)
		}
	}

	// PULSO_TOP_N -> top_n. Underscores are preserved to match koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The file/dotenv selectors are not settings.
	k.Delete("config")
	k.Delete("dotenv")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
