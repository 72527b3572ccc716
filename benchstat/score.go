// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"fmt"
	"math"
)

// Default score weights and scales.
const (
	DefaultKSWeight          = 0.5
	DefaultWassersteinWeight = 0.5

	// DefaultScale of 0 means the Wasserstein reference scale is
	// derived from the baseline using DefaultRelativeScale.
	DefaultScale = 0

	// DefaultRelativeScale makes a Wasserstein distance of 10% of
	// the baseline median cost about 63% of its weight.
	DefaultRelativeScale = 0.1
)

// weightTolerance is how far the weights may sum from 1.
const weightTolerance = 1e-9

// ScoreOptions configure how distances are combined into a score.
type ScoreOptions struct {
	// KSWeight and WassersteinWeight weigh the two distance terms.
	// Both must be non-negative and they must sum to 1.
	KSWeight, WassersteinWeight float64

	// Scale is the absolute reference scale, in sample units, by
	// which Wasserstein distances are compressed. If it is 0, the
	// scale is RelativeScale times the magnitude of the baseline
	// median. Both are converted to standard deviations when the
	// distributions are standardized.
	Scale float64

	// RelativeScale is the reference scale as a fraction of the
	// baseline median. It is used only if Scale is 0.
	RelativeScale float64
}

// DefaultScoreOptions returns the default score options.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{
		KSWeight:          DefaultKSWeight,
		WassersteinWeight: DefaultWassersteinWeight,
		Scale:             DefaultScale,
		RelativeScale:     DefaultRelativeScale,
	}
}

// A Normalizer maps distances to a score in [0, 100], where 100 means
// the two distributions are identical.
//
// The divergence
//
//	d = KSWeight·KS + WassersteinWeight·(1 - exp(-W/scale))
//
// lies in [0, 1] and the score is 100·(1 - d). A Normalizer is
// immutable and safe for concurrent use.
type Normalizer struct {
	opts ScoreOptions
}

// NewNormalizer returns a Normalizer for opts, or a
// *ConfigurationError if the weights or scales are out of range.
func NewNormalizer(opts ScoreOptions) (*Normalizer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Normalizer{opts}, nil
}

func (o ScoreOptions) validate() error {
	switch {
	case !(o.KSWeight >= 0):
		return &ConfigurationError{"ks_weight", fmt.Sprintf("%v is negative", o.KSWeight)}
	case !(o.WassersteinWeight >= 0):
		return &ConfigurationError{"wasserstein_weight", fmt.Sprintf("%v is negative", o.WassersteinWeight)}
	case math.Abs(o.KSWeight+o.WassersteinWeight-1) > weightTolerance:
		return &ConfigurationError{"weights", fmt.Sprintf("%v + %v does not sum to 1", o.KSWeight, o.WassersteinWeight)}
	case !(o.Scale >= 0) || math.IsInf(o.Scale, 0):
		return &ConfigurationError{"scale", fmt.Sprintf("%v is not a finite non-negative number", o.Scale)}
	case !(o.RelativeScale >= 0) || math.IsInf(o.RelativeScale, 0):
		return &ConfigurationError{"relative_scale", fmt.Sprintf("%v is not a finite non-negative number", o.RelativeScale)}
	case o.Scale == 0 && o.RelativeScale == 0:
		return &ConfigurationError{"scale", "scale and relative_scale are both 0"}
	}
	return nil
}

// Options returns the options n was built from.
func (n *Normalizer) Options() ScoreOptions {
	return n.opts
}

// Scale returns the Wasserstein reference scale to use when baseline
// is the reference distribution, in the units of baseline's values.
// The result is always positive.
//
// The scale is resolved in sample units and then divided by
// baseline.Spread, so a standardized comparison is compressed by the
// same reference as the raw one.
func (n *Normalizer) Scale(baseline *Distribution) float64 {
	s := n.opts.Scale
	if !(s > 0) {
		s = n.opts.RelativeScale * math.Abs(baseline.SampleCenter())
	}
	if !(s > 0) || math.IsInf(s, 0) {
		// An all-zero baseline has no magnitude to be relative to.
		s = 1
	}
	if baseline.Spread > 0 {
		s /= baseline.Spread
	}
	return s
}

// Terms returns the weighted KS and Wasserstein contributions to the
// divergence of d. Their sum is in [0, 1]. A scale that is not
// positive is treated as 1.
func (n *Normalizer) Terms(d Distances, scale float64) (ks, wasserstein float64) {
	if !(scale > 0) {
		scale = 1
	}
	ks = n.opts.KSWeight * d.KS
	wasserstein = n.opts.WassersteinWeight * -math.Expm1(-d.Wasserstein/scale)
	return ks, wasserstein
}

// Normalize returns the score of d in [0, 100], compressing the
// Wasserstein distance by scale.
func (n *Normalizer) Normalize(d Distances, scale float64) float64 {
	ks, w := n.Terms(d, scale)
	score := 100 * (1 - (ks + w))
	return math.Max(0, math.Min(100, score))
}
