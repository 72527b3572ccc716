// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config defines benchdist settings and how they are loaded.
//
// Settings are layered: built-in defaults, then an optional YAML file,
// then BENCHDIST_ environment variables. The result converts to a
// benchstat.Config that drives every comparison.
package config

import (
	"fmt"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchstat"
	"github.com/go-playground/validator/v10"
)

// Config contains benchdist settings.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// KSWeight and WassersteinWeight weigh the two distances in
	// the score. They must sum to 1.
	KSWeight          float64 `koanf:"ks_weight" validate:"gte=0,lte=1"`
	WassersteinWeight float64 `koanf:"wasserstein_weight" validate:"gte=0,lte=1"`

	// Scale is the absolute Wasserstein reference scale in base
	// units (seconds for latencies). 0 derives it from the
	// baseline median using RelativeScale.
	Scale         float64 `koanf:"scale" validate:"gte=0"`
	RelativeScale float64 `koanf:"relative_scale" validate:"gte=0"`

	// KSMethod is "exact" or "percentiles".
	KSMethod string `koanf:"ks_method" validate:"oneof=exact percentiles"`

	// Percentiles is the percentile grid, in percent. Empty means
	// 0, 5, ..., 95.
	Percentiles []float64 `koanf:"percentiles" validate:"omitempty,dive,gte=0,lte=100"`

	// Standardize compares only the shapes of the distributions.
	Standardize bool `koanf:"standardize"`

	// TrimUpper drops this fraction of the slowest values.
	TrimUpper float64 `koanf:"trim_upper" validate:"gte=0,lt=1"`

	// AllowNegative accepts negative measurements.
	AllowNegative bool `koanf:"allow_negative"`

	// Ranks are the lowest scores of ranks A through E.
	Ranks Ranks `koanf:"ranks"`

	// Gate is the worst acceptable rank. Empty disables gating.
	Gate string `koanf:"gate" validate:"omitempty,oneof=A B C D E F"`

	// Workers bounds concurrent group comparisons. 0 means one
	// per CPU.
	Workers int `koanf:"workers" validate:"gte=0"`
}

// Ranks are rank boundaries, keyed by lower-case rank letter.
type Ranks struct {
	A float64 `koanf:"a" validate:"gte=0,lte=100"`
	B float64 `koanf:"b" validate:"gte=0,lte=100"`
	C float64 `koanf:"c" validate:"gte=0,lte=100"`
	D float64 `koanf:"d" validate:"gte=0,lte=100"`
	E float64 `koanf:"e" validate:"gte=0,lte=100"`
}

// New returns a Config with the default settings.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		KSWeight:          benchstat.DefaultKSWeight,
		WassersteinWeight: benchstat.DefaultWassersteinWeight,
		Scale:             benchstat.DefaultScale,
		RelativeScale:     benchstat.DefaultRelativeScale,
		KSMethod:          benchstat.KSExact.String(),
		Ranks: Ranks{
			A: benchstat.BoundaryA,
			B: benchstat.BoundaryB,
			C: benchstat.BoundaryC,
			D: benchstat.BoundaryD,
			E: benchstat.BoundaryE,
		},
	}
}

var validate = validator.New()

// Validate checks field ranges. Cross-field rules such as the weights
// summing to 1 are checked by Engine.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Engine converts c into a benchstat.Config and checks it the way
// benchstat.NewComparer does. All errors match ErrInvalidConfig.
func (c *Config) Engine() (benchstat.Config, error) {
	if err := c.Validate(); err != nil {
		return benchstat.Config{}, err
	}
	method, err := benchstat.ParseKSMethod(c.KSMethod)
	if err != nil {
		return benchstat.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var grid []float64
	if len(c.Percentiles) > 0 {
		grid = make([]float64, len(c.Percentiles))
		for i, p := range c.Percentiles {
			grid[i] = p / 100
		}
	}
	cfg := benchstat.Config{
		Distribution: benchstat.DistributionOptions{
			Grid:          grid,
			AllowNegative: c.AllowNegative,
			Standardize:   c.Standardize,
			TrimUpper:     c.TrimUpper,
		},
		KSMethod: method,
		Score: benchstat.ScoreOptions{
			KSWeight:          c.KSWeight,
			WassersteinWeight: c.WassersteinWeight,
			Scale:             c.Scale,
			RelativeScale:     c.RelativeScale,
		},
		Ranks: benchstat.Boundaries{A: c.Ranks.A, B: c.Ranks.B, C: c.Ranks.C, D: c.Ranks.D, E: c.Ranks.E},
	}
	if _, err := benchstat.NewComparer(cfg); err != nil {
		return benchstat.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// GateRank returns the gate rank and whether a gate is set.
func (c *Config) GateRank() (benchstat.Rank, bool, error) {
	if c.Gate == "" {
		return 0, false, nil
	}
	r, err := benchstat.ParseRank(c.Gate)
	if err != nil {
		return 0, false, fmt.Errorf("%w: gate: %v", ErrInvalidConfig, err)
	}
	return r, true, nil
}
