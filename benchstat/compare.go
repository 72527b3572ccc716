// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import "fmt"

// Config is the complete configuration of a comparison. The pipeline
// consults nothing but the Config it was given.
type Config struct {
	// Distribution controls how samples are turned into
	// distributions.
	Distribution DistributionOptions

	// KSMethod selects how the KS distance is computed.
	KSMethod KSMethod

	// Score controls how distances are combined into a score.
	Score ScoreOptions

	// Ranks are the score boundaries of each rank.
	Ranks Boundaries
}

// DefaultConfig returns a new Config with the default settings.
func DefaultConfig() Config {
	return Config{
		KSMethod: KSExact,
		Score:    DefaultScoreOptions(),
		Ranks:    DefaultBoundaries(),
	}
}

// A Comparison is the result of comparing a benchmark sample against a
// baseline sample.
type Comparison struct {
	Distances

	// Score is in [0, 100]. 100 means the samples have identical
	// distributions.
	Score float64

	// Rank is the letter grade of Score.
	Rank Rank

	// P is the asymptotic p-value of the KS distance.
	P float64

	// Delta is the benchmark median minus the baseline median, in
	// sample units even if the distributions are standardized.
	Delta float64

	// N1 and N2 are the sizes of the baseline and benchmark
	// samples after trimming.
	N1, N2 int

	// Scale is the reference scale the Wasserstein distance was
	// compressed by.
	Scale float64

	// Standardized reports that the distances and Scale are in
	// standard deviations rather than sample units.
	Standardized bool
}

// A Comparer compares pairs of samples under a fixed Config. It is
// immutable and safe for concurrent use.
type Comparer struct {
	cfg  Config
	norm *Normalizer
}

// NewComparer validates cfg and returns a Comparer for it. All
// configuration errors are *ConfigurationErrors.
func NewComparer(cfg Config) (*Comparer, error) {
	if err := cfg.Distribution.validate(); err != nil {
		return nil, err
	}
	if cfg.KSMethod != KSExact && cfg.KSMethod != KSPercentileGrid {
		return nil, &ConfigurationError{"ks_method", fmt.Sprintf("unknown method %v", cfg.KSMethod)}
	}
	norm, err := NewNormalizer(cfg.Score)
	if err != nil {
		return nil, err
	}
	if err := cfg.Ranks.Validate(); err != nil {
		return nil, err
	}
	if cfg.Distribution.Grid != nil {
		cfg.Distribution.Grid = append([]float64(nil), cfg.Distribution.Grid...)
	}
	return &Comparer{cfg, norm}, nil
}

// Config returns the configuration of c.
func (c *Comparer) Config() Config {
	cfg := c.cfg
	if cfg.Distribution.Grid != nil {
		cfg.Distribution.Grid = append([]float64(nil), cfg.Distribution.Grid...)
	}
	return cfg
}

// Distribution builds the distribution of a sample using c's
// distribution options.
func (c *Comparer) Distribution(values []float64) (*Distribution, error) {
	return NewDistribution(values, c.cfg.Distribution)
}

// Compare compares a benchmark sample against a baseline sample.
// Neither sample is modified. If either sample is invalid, Compare
// returns an error wrapping an *InvalidSampleError and naming the
// side.
func (c *Comparer) Compare(baseline, benchmark []float64) (Comparison, error) {
	a, err := c.Distribution(baseline)
	if err != nil {
		return Comparison{}, fmt.Errorf("baseline: %w", err)
	}
	b, err := c.Distribution(benchmark)
	if err != nil {
		return Comparison{}, fmt.Errorf("benchmark: %w", err)
	}
	return c.CompareDistributions(a, b), nil
}

// CompareDistributions compares two already built distributions.
// Baseline provides the reference scale.
func (c *Comparer) CompareDistributions(baseline, benchmark *Distribution) Comparison {
	d := ComputeDistances(baseline, benchmark, c.cfg.KSMethod)
	scale := c.norm.Scale(baseline)
	score := c.norm.Normalize(d, scale)
	return Comparison{
		Distances:    d,
		Score:        score,
		Rank:         c.cfg.Ranks.Classify(score),
		P:            KSPValue(d.KS, baseline.N(), benchmark.N()),
		Delta:        benchmark.SampleCenter() - baseline.SampleCenter(),
		N1:           baseline.N(),
		N2:           benchmark.N(),
		Scale:        scale,
		Standardized: c.cfg.Distribution.Standardize,
	}
}
