// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchstat computes statistical distances between two
// samples of benchmark measurements and reduces them to a bounded
// score and a letter rank.
//
// The pipeline is strictly forward and every stage is a pure
// function of its inputs:
//
//	samples -> Distribution -> Distances -> score -> Rank
//
// NewDistribution builds the empirical distribution of a sample. KS
// and Wasserstein compute the two-sample Kolmogorov-Smirnov and
// first-order Wasserstein distances. A Normalizer combines them into
// a score in [0, 100], and Boundaries classify the score as a Rank.
// A Comparer runs the whole pipeline under an explicit Config.
package benchstat

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Distribution is the empirical distribution of a sample.
//
// A Distribution is never modified after construction and shares no
// memory with the sample it was built from.
type Distribution struct {
	// Values is the sorted sample.
	Values []float64

	// Probs[i] is the cumulative probability of Values[i]. The
	// i'th smallest value (1-indexed) has probability i/n.
	Probs []float64

	// Grid is the set of quantile positions in [0, 1] at which
	// Percentiles were sampled.
	Grid []float64

	// Percentiles[i] is the sample quantile at Grid[i], linearly
	// interpolated between order statistics using method R8 of
	// Hyndman and Fan (1996).
	Percentiles []float64

	// Center is the sample median, interpolated the same way.
	Center float64

	// Shift and Spread map the values of d back to the units of
	// the sample: a value v corresponds to v*Spread + Shift. They
	// are 0 and 1 unless the sample was standardized.
	Shift, Spread float64
}

// DistributionOptions control how a sample is turned into a
// Distribution. The zero value is ready to use.
type DistributionOptions struct {
	// Grid is the set of quantile positions, ascending and in [0,
	// 1]. If nil, DefaultGrid is used.
	Grid []float64

	// AllowNegative accepts negative values. Latencies are never
	// negative, so by default they are rejected.
	AllowNegative bool

	// Standardize rescales the sample to zero mean and unit
	// standard deviation so that only the shapes of two samples
	// are compared.
	Standardize bool

	// TrimUpper drops this fraction of the largest values before
	// the distribution is built. The number of kept values is
	// rounded up. It must be in [0, 1).
	TrimUpper float64
}

// DefaultGrid returns the 0th through 95th percentiles in steps of 5,
// as fractions.
func DefaultGrid() []float64 {
	grid := make([]float64, 20)
	for i := range grid {
		grid[i] = float64(i*5) / 100
	}
	return grid
}

func (o DistributionOptions) validate() error {
	for i, q := range o.Grid {
		if !(q >= 0 && q <= 1) {
			return &ConfigurationError{"grid", fmt.Sprintf("position %v is outside [0, 1]", q)}
		}
		if i > 0 && q <= o.Grid[i-1] {
			return &ConfigurationError{"grid", "positions must be strictly ascending"}
		}
	}
	if !(o.TrimUpper >= 0 && o.TrimUpper < 1) {
		return &ConfigurationError{"trim_upper", fmt.Sprintf("%v is outside [0, 1)", o.TrimUpper)}
	}
	return nil
}

// NewDistribution returns the empirical distribution of values.
//
// It returns an *InvalidSampleError if values is empty or contains a
// NaN, an infinity, or a negative value when opts.AllowNegative is
// not set, and a *ConfigurationError if opts is invalid. values is
// never modified.
func NewDistribution(values []float64, opts DistributionOptions) (*Distribution, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := checkSample(values, opts.AllowNegative); err != nil {
		return nil, err
	}

	samp := stats.Sample{Xs: values}.Copy()
	shift, spread := 0.0, 1.0
	if opts.Standardize {
		shift, spread = standardize(samp.Xs)
	}
	// Speed up order statistics.
	samp.Sort()
	if opts.TrimUpper > 0 {
		samp.Xs = samp.Xs[:keptCount(len(samp.Xs), opts.TrimUpper)]
	}

	grid := DefaultGrid()
	if opts.Grid != nil {
		grid = append([]float64(nil), opts.Grid...)
	}

	n := len(samp.Xs)
	probs := make([]float64, n)
	for i := range probs {
		probs[i] = float64(i+1) / float64(n)
	}
	pcts := make([]float64, len(grid))
	for i, q := range grid {
		pcts[i] = samp.Quantile(q)
	}

	return &Distribution{
		Values:      samp.Xs,
		Probs:       probs,
		Grid:        grid,
		Percentiles: pcts,
		Center:      samp.Quantile(0.5),
		Shift:       shift,
		Spread:      spread,
	}, nil
}

func checkSample(xs []float64, allowNegative bool) error {
	if len(xs) == 0 {
		return &InvalidSampleError{Index: -1, Reason: "sample is empty"}
	}
	for i, x := range xs {
		switch {
		case math.IsNaN(x) || math.IsInf(x, 0):
			return &InvalidSampleError{i, x, "not finite"}
		case x < 0 && !allowNegative:
			return &InvalidSampleError{i, x, "negative"}
		}
	}
	return nil
}

// standardize rescales xs in place to zero mean and, if xs has any
// spread, unit standard deviation. It returns the shift and spread
// that undo the transformation.
func standardize(xs []float64) (shift, spread float64) {
	mean, sd := stats.Mean(xs), stats.StdDev(xs)
	if !(sd > 0) {
		sd = 1
	}
	for i, x := range xs {
		xs[i] = (x - mean) / sd
	}
	return mean, sd
}

// keptCount returns how many of n values remain after trimming the
// upper trim fraction. At least one value is always kept.
func keptCount(n int, trim float64) int {
	// The epsilon keeps exact products like 100*0.96 from
	// rounding up to the next integer.
	k := int(math.Ceil(float64(n)*(1-trim) - 1e-9))
	if k < 1 {
		k = 1
	}
	return k
}

// SampleCenter returns the median of d in the units of the sample d
// was built from, even if d is standardized.
func (d *Distribution) SampleCenter() float64 {
	return d.Center*d.Spread + d.Shift
}

// N returns the number of values in d.
func (d *Distribution) N() int {
	return len(d.Values)
}

// CDF returns the fraction of d's values that are <= x.
func (d *Distribution) CDF(x float64) float64 {
	i := sort.Search(len(d.Values), func(i int) bool { return d.Values[i] > x })
	return float64(i) / float64(len(d.Values))
}

// Quantile returns the smallest value v of d such that CDF(v) >= p.
// This is the inverse of the step function CDF, not an interpolated
// percentile; see Percentiles for those.
func (d *Distribution) Quantile(p float64) float64 {
	i := sort.Search(len(d.Probs), func(i int) bool { return d.Probs[i] >= p })
	if i == len(d.Values) {
		i--
	}
	return d.Values[i]
}
