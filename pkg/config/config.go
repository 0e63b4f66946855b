// Package config loads gosk settings from a TOML file.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vic/gosk/pkg/lambda"
	"github.com/vic/gosk/pkg/reduce"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Reducer ReducerConfig `toml:"reducer"`
	Log     LogConfig     `toml:"log"`
	Cache   CacheConfig   `toml:"cache"`
	Batch   BatchConfig   `toml:"batch"`
}

type ReducerConfig struct {
	Fuel         uint64 `toml:"fuel"`
	Hygienic     bool   `toml:"hygienic"`
	FlattenSpine bool   `toml:"flatten_spine"`
	Trace        int    `toml:"trace"`
	Style        string `toml:"style"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type CacheConfig struct {
	// Path of the bbolt database; empty disables caching.
	Path string `toml:"path"`
}

type BatchConfig struct {
	Jobs int `toml:"jobs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Reducer: ReducerConfig{Style: lambda.StyleFlat.String()},
		Log:     LogConfig{Level: "warn"},
		Batch:   BatchConfig{Jobs: 1},
	}
}

// Load reads path over the defaults. Keys absent from the file keep
// their default values; unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding configuration file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Wrapf(ErrInvalid, "%s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating %s", path)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if _, err := lambda.ParseStyle(c.Reducer.Style); err != nil {
		errs = multierror.Append(errs, errors.Wrap(ErrInvalid, err.Error()))
	}
	if c.Reducer.Trace < 0 {
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalid, "reducer.trace must not be negative, got %d", c.Reducer.Trace))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = multierror.Append(errs, errors.Wrap(ErrInvalid, err.Error()))
	}
	if c.Batch.Jobs < 1 {
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalid, "batch.jobs must be at least 1, got %d", c.Batch.Jobs))
	}
	return errs.ErrorOrNil()
}

// ReducerOptions converts the reducer section. The logger is left to
// the caller.
func (c *Config) ReducerOptions() reduce.Options {
	return reduce.Options{
		Fuel:         c.Reducer.Fuel,
		Hygienic:     c.Reducer.Hygienic,
		FlattenSpine: c.Reducer.FlattenSpine,
	}
}

// Renderer returns the renderer for the configured style.
func (c *Config) Renderer() (lambda.Renderer, error) {
	style, err := lambda.ParseStyle(c.Reducer.Style)
	if err != nil {
		return lambda.Renderer{}, err
	}
	return lambda.Renderer{Style: style}, nil
}
