// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"gonum.org/v1/gonum/stat"
)

// randSample returns n latencies drawn from a shifted log-normal
// distribution. If round is set the values are rounded so that the
// sample contains ties.
func randSample(rng *rand.Rand, n int, shift float64, round bool) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		x := shift + math.Exp(rng.NormFloat64())
		if round {
			x = math.Round(x * 4)
		}
		xs[i] = x
	}
	return xs
}

func TestKSMatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		n, m := 1+rng.Intn(60), 1+rng.Intn(60)
		round := iter%2 == 0
		a := mustDist(t, randSample(rng, n, 0, round), DistributionOptions{})
		b := mustDist(t, randSample(rng, m, rng.Float64(), round), DistributionOptions{})

		want := stat.KolmogorovSmirnov(a.Values, nil, b.Values, nil)
		if got := KS(a, b); !aeq(got, want) {
			t.Fatalf("n=%d m=%d: got KS %v, gonum says %v", n, m, got, want)
		}
		if got := KS(b, a); !aeq(got, want) {
			t.Fatalf("n=%d m=%d: KS is not symmetric: %v vs %v", n, m, got, want)
		}
		if approx := KSPercentiles(a, b); approx > want+1e-12 {
			t.Fatalf("n=%d m=%d: percentile KS %v exceeds exact %v", n, m, approx, want)
		}
	}
}

func TestKS(t *testing.T) {
	test := func(xs, ys []float64, want float64) {
		t.Helper()
		a := mustDist(t, xs, DistributionOptions{})
		b := mustDist(t, ys, DistributionOptions{})
		if got := KS(a, b); !aeq(got, want) {
			t.Errorf("KS(%v, %v) = %v, want %v", xs, ys, got, want)
		}
	}
	test([]float64{100, 100, 100, 100}, []float64{100, 100, 100, 100}, 0)
	test([]float64{100, 100, 100, 100}, []float64{200, 200, 200, 200}, 1)
	test([]float64{1, 2, 3}, []float64{3, 2, 1}, 0)
	test([]float64{1}, []float64{1, 2}, 0.5)
	test([]float64{1, 2, 3, 4}, []float64{3, 4, 5, 6}, 0.5)
	// Ties are consumed together: F_a(2) = 1, F_b(2) = 2/3.
	test([]float64{2, 2}, []float64{1, 2, 3}, 1.0/3)
}

func TestWasserstein(t *testing.T) {
	test := func(xs, ys []float64, want float64) {
		t.Helper()
		a := mustDist(t, xs, DistributionOptions{})
		b := mustDist(t, ys, DistributionOptions{})
		if got := Wasserstein(a, b); !aeq(got, want) {
			t.Errorf("Wasserstein(%v, %v) = %v, want %v", xs, ys, got, want)
		}
		if got := Wasserstein(b, a); !aeq(got, want) {
			t.Errorf("Wasserstein(%v, %v) = %v, want %v", ys, xs, got, want)
		}
	}
	test([]float64{100, 100, 100, 100}, []float64{100, 100, 100, 100}, 0)
	test([]float64{100, 100, 100, 100}, []float64{200, 200, 200, 200}, 100)
	test([]float64{1, 2, 3}, []float64{3, 1, 2}, 0)
	test([]float64{0, 1}, []float64{0}, 0.5)
	test([]float64{0, 2}, []float64{1}, 1)
	test([]float64{1, 2, 3}, []float64{1, 2}, 0.5)
	test([]float64{5}, []float64{1, 2, 3, 4}, 2.5)
}

func TestWassersteinShift(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	xs := randSample(rng, 40, 10, false)
	a := mustDist(t, xs, DistributionOptions{})
	for _, c := range []float64{0, 0.5, 3, 100} {
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = x + c
		}
		b := mustDist(t, ys, DistributionOptions{})
		if got := Wasserstein(a, b); math.Abs(got-c) > 1e-9 {
			t.Errorf("shift by %v: got W %v", c, got)
		}
	}
}

func TestWassersteinPaths(t *testing.T) {
	// The equal-length shortcut and the general CDF integral must
	// agree.
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 100; iter++ {
		n := 1 + rng.Intn(50)
		round := iter%2 == 0
		a := mustDist(t, randSample(rng, n, 0, round), DistributionOptions{})
		b := mustDist(t, randSample(rng, n, rng.Float64()*3, round), DistributionOptions{})
		fast, slow := Wasserstein(a, b), wassersteinCDF(a.Values, b.Values)
		if math.Abs(fast-slow) > 1e-9*math.Max(1, fast) {
			t.Fatalf("n=%d: shortcut gives %v, integral gives %v", n, fast, slow)
		}
	}
}

func TestComputeDistances(t *testing.T) {
	a := mustDist(t, []float64{1, 2, 3, 4}, DistributionOptions{})
	b := mustDist(t, []float64{2, 3, 4, 5}, DistributionOptions{})
	d := ComputeDistances(a, b, KSExact)
	if !aeq(d.KS, 0.25) || !aeq(d.Wasserstein, 1) {
		t.Errorf("got %+v, want KS 0.25 and W 1", d)
	}
	if p := ComputeDistances(a, b, KSPercentileGrid); p.KS > d.KS || p.Wasserstein != d.Wasserstein {
		t.Errorf("percentile grid got %+v, exact got %+v", p, d)
	}
}

func TestCompute(t *testing.T) {
	d, err := Compute([]float64{100, 100, 100, 100}, []float64{200, 200, 200, 200}, DistributionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if d.KS != 1 || d.Wasserstein != 100 {
		t.Errorf("got %+v, want KS 1 and W 100", d)
	}

	test := func(a, b []float64, side string) {
		t.Helper()
		d, err := Compute(a, b, DistributionOptions{})
		if !errors.Is(err, ErrInvalidSample) {
			t.Fatalf("got %v, want invalid sample", err)
		}
		if !strings.HasPrefix(err.Error(), side+": ") {
			t.Errorf("error %q does not name side %s", err, side)
		}
		if d != (Distances{}) {
			t.Errorf("got partial result %+v", d)
		}
	}
	test(nil, []float64{1}, "baseline")
	test([]float64{1}, []float64{}, "benchmark")
	test([]float64{1}, []float64{math.NaN()}, "benchmark")
}

func TestKSMethod(t *testing.T) {
	for _, m := range []KSMethod{KSExact, KSPercentileGrid} {
		got, err := ParseKSMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParseKSMethod(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseKSMethod(""); err != nil || got != KSExact {
		t.Errorf(`ParseKSMethod("") = %v, %v, want exact`, got, err)
	}
	if _, err := ParseKSMethod("anderson"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v, want configuration error", err)
	}
}

func TestKSPValue(t *testing.T) {
	if p := KSPValue(0, 10, 10); p != 1 {
		t.Errorf("d=0: got %v, want 1", p)
	}
	if p := KSPValue(0.5, 0, 10); !math.IsNaN(p) {
		t.Errorf("n=0: got %v, want NaN", p)
	}
	// The 5% critical value for large samples is about
	// 1.358/sqrt(ne).
	if p := KSPValue(0.0608, 1000, 1000); math.Abs(p-0.05) > 0.005 {
		t.Errorf("got %v, want about 0.05", p)
	}
	if p := KSPValue(1, 50, 50); p > 1e-10 {
		t.Errorf("disjoint samples: got %v, want about 0", p)
	}
	prev := 1.0
	for d := 0.01; d <= 1; d += 0.01 {
		p := KSPValue(d, 30, 40)
		if p < 0 || p > 1 || p > prev+1e-6 {
			t.Fatalf("p-value %v at d=%v is out of range or increasing (prev %v)", p, d, prev)
		}
		prev = p
	}
}
