// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"fmt"
	"math"
)

// Distances are the raw distances between two distributions.
type Distances struct {
	// KS is the two-sample Kolmogorov-Smirnov statistic, the
	// largest vertical gap between the two empirical CDFs. It is
	// in [0, 1].
	KS float64

	// Wasserstein is the first-order Wasserstein (earth mover's)
	// distance, in the units of the samples.
	Wasserstein float64
}

// A KSMethod selects where the two empirical CDFs are compared when
// computing the KS distance.
type KSMethod int

const (
	// KSExact compares the CDFs at every distinct value of either
	// sample, which gives the exact two-sample statistic.
	KSExact KSMethod = iota

	// KSPercentileGrid compares the CDFs only at the percentile
	// cut-points of both distributions. The result never exceeds
	// the exact statistic.
	KSPercentileGrid
)

func (m KSMethod) String() string {
	switch m {
	case KSExact:
		return "exact"
	case KSPercentileGrid:
		return "percentiles"
	}
	return fmt.Sprintf("KSMethod(%d)", int(m))
}

// ParseKSMethod parses the String form of a KSMethod.
func ParseKSMethod(s string) (KSMethod, error) {
	switch s {
	case "exact", "":
		return KSExact, nil
	case "percentiles":
		return KSPercentileGrid, nil
	}
	return 0, &ConfigurationError{"ks_method", fmt.Sprintf("unknown method %q", s)}
}

// KS returns the exact two-sample Kolmogorov-Smirnov distance between
// a and b.
func KS(a, b *Distribution) float64 {
	xs, ys := a.Values, b.Values
	n, m := float64(len(xs)), float64(len(ys))
	var i, j int
	var d float64
	// Step both CDFs past every value equal to the next breakpoint
	// so ties are consumed together. Once one side is exhausted
	// its CDF is 1 and the gap can only shrink.
	for i < len(xs) && j < len(ys) {
		x := math.Min(xs[i], ys[j])
		for i < len(xs) && xs[i] <= x {
			i++
		}
		for j < len(ys) && ys[j] <= x {
			j++
		}
		if g := math.Abs(float64(i)/n - float64(j)/m); g > d {
			d = g
		}
	}
	return d
}

// KSPercentiles returns the Kolmogorov-Smirnov distance between a and
// b evaluated only at the union of their percentile cut-points.
func KSPercentiles(a, b *Distribution) float64 {
	var d float64
	for _, pcts := range [][]float64{a.Percentiles, b.Percentiles} {
		for _, x := range pcts {
			if g := math.Abs(a.CDF(x) - b.CDF(x)); g > d {
				d = g
			}
		}
	}
	return d
}

// Wasserstein returns the first-order Wasserstein distance between a
// and b.
//
// For samples of equal size this is the mean absolute difference of
// the sorted samples. Otherwise it is the integral of |F_a - F_b| over
// the merged breakpoints of both samples, which equals the integral
// over [0, 1] of the absolute difference of the two quantile
// functions.
func Wasserstein(a, b *Distribution) float64 {
	xs, ys := a.Values, b.Values
	if len(xs) != len(ys) {
		return wassersteinCDF(xs, ys)
	}
	var sum float64
	for i := range xs {
		sum += math.Abs(xs[i] - ys[i])
	}
	return sum / float64(len(xs))
}

// wassersteinCDF integrates |F_x - F_y| between consecutive
// breakpoints of the sorted samples xs and ys.
func wassersteinCDF(xs, ys []float64) float64 {
	n, m := float64(len(xs)), float64(len(ys))
	var i, j int
	var w float64
	prev := math.Min(xs[0], ys[0])
	for i < len(xs) || j < len(ys) {
		var x float64
		switch {
		case i == len(xs):
			x = ys[j]
		case j == len(ys):
			x = xs[i]
		default:
			x = math.Min(xs[i], ys[j])
		}
		// On [prev, x) the CDFs are constant at i/n and j/m.
		w += math.Abs(float64(i)/n-float64(j)/m) * (x - prev)
		for i < len(xs) && xs[i] <= x {
			i++
		}
		for j < len(ys) && ys[j] <= x {
			j++
		}
		prev = x
	}
	return w
}

// ComputeDistances returns the distances between a and b, computing
// KS with the given method.
func ComputeDistances(a, b *Distribution, method KSMethod) Distances {
	ks := KS
	if method == KSPercentileGrid {
		ks = KSPercentiles
	}
	return Distances{
		KS:          ks(a, b),
		Wasserstein: Wasserstein(a, b),
	}
}

// Compute builds the distributions of two samples and returns the
// exact distances between them. If either sample is invalid it
// returns an error matching ErrInvalidSample and no distances.
func Compute(popA, popB []float64, opts DistributionOptions) (Distances, error) {
	a, err := NewDistribution(popA, opts)
	if err != nil {
		return Distances{}, fmt.Errorf("baseline: %w", err)
	}
	b, err := NewDistribution(popB, opts)
	if err != nil {
		return Distances{}, fmt.Errorf("benchmark: %w", err)
	}
	return ComputeDistances(a, b, KSExact), nil
}

// KSPValue returns the asymptotic p-value of a two-sample
// Kolmogorov-Smirnov distance d between samples of sizes n and m,
// that is, the probability of a distance at least d if both samples
// came from the same continuous distribution.
//
// It uses the Kolmogorov distribution with Stephens' small-sample
// correction, so it is approximate for small n and m.
func KSPValue(d float64, n, m int) float64 {
	if n <= 0 || m <= 0 || math.IsNaN(d) {
		return math.NaN()
	}
	if d <= 0 {
		return 1
	}
	ne := float64(n) * float64(m) / float64(n+m)
	sq := math.Sqrt(ne)
	return kolmogorovQ((sq + 0.12 + 0.11/sq) * d)
}

// kolmogorovQ returns the complementary Kolmogorov distribution
//
//	Q(λ) = 2 Σ_{k>=1} (-1)^(k-1) exp(-2 k² λ²)
func kolmogorovQ(lambda float64) float64 {
	const (
		relTerm = 1e-6
		relSum  = 1e-16
		maxK    = 100
	)
	a := -2 * lambda * lambda
	sign, sum, prevTerm := 2.0, 0.0, 0.0
	for k := 1; k <= maxK; k++ {
		term := sign * math.Exp(a*float64(k*k))
		sum += term
		if math.Abs(term) <= relTerm*prevTerm || math.Abs(term) <= relSum*sum {
			return math.Max(0, math.Min(1, sum))
		}
		sign = -sign
		prevTerm = math.Abs(term)
	}
	// The series only fails to converge as λ approaches 0, where
	// Q approaches 1.
	return 1
}
