// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"math"
	"strconv"
)

// Scaler represents a scaling factor for a number and its scientific
// representation.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 k => 1000)
	Prefix string  // Unit prefix (SI or binary)
}

// Format formats val and appends the unit prefix according to the
// given scale.
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

// NoOpScaler is a Scaler that formats numbers with the smallest
// number of digits necessary to capture the exact value, and no
// prefix. This is intended for when the output will be consumed by
// another program, such as when producing CSV format.
var NoOpScaler = Scaler{-1, 1, ""}

// A factor is a unit prefix and the smallest unscaled values that
// print as 100, 10.0 and 1.00 under it.
type factor struct {
	factor        float64
	prefix        string
	t100, t10, t1 float64
}

var (
	siFactors = mkFactors(
		[]string{"T", "G", "M", "k", "", "m", "µ", "n"}, 12, 3,
		func(mant string, exp int) float64 {
			// Parse the printed form so the thresholds match
			// how AppendFloat rounds.
			v, _ := strconv.ParseFloat(mant+"e"+strconv.Itoa(exp), 64)
			return v
		},
		func(exp int) float64 { return math.Pow(10, float64(exp)) })

	// Binary prefixes below 1 use "/Ki" for "per Ki", which is
	// meaningful for rates like B/sec.
	iecFactors = mkFactors(
		[]string{"Ti", "Gi", "Mi", "Ki", "", "/Ki", "/Mi", "/Gi", "/Ti"}, 40, 10,
		func(mant string, exp int) float64 {
			v, _ := strconv.ParseFloat(mant, 64)
			return math.Ldexp(v, exp)
		},
		func(exp int) float64 { return math.Ldexp(1, exp) })
)

// mkFactors builds the factor table for prefixes, the first of which
// is base^top, each following one step smaller. threshold returns
// mant*base^exp for a decimal mantissa.
func mkFactors(prefixes []string, top, step int, threshold func(mant string, exp int) float64, pow func(exp int) float64) []factor {
	factors := make([]factor, len(prefixes))
	for i, p := range prefixes {
		exp := top - i*step
		factors[i] = factor{
			factor: pow(exp),
			prefix: p,
			t100:   threshold("99.95", exp),
			t10:    threshold("9.995", exp),
			t1:     threshold(".9995", exp),
		}
	}
	return factors
}

// Scale formats val using at least three significant digits,
// appending an SI or binary prefix.
func Scale(val float64, cls UnitClass) string {
	return CommonScale([]float64{val}, cls).Format(val)
}

// ScaleUnit formats val in the given unit, choosing the prefix from
// the unit's class. For example, 0.0125 "sec" formats as "12.5msec".
func ScaleUnit(val float64, unit string) string {
	return Scale(val, UnitClassOf(unit)) + unit
}

// CommonScale returns a common Scaler to apply to all values in vals.
// This scale will show at least three significant digits for every
// value. NaN and infinite values are ignored. Classes other than
// UnitClassIEC are scaled as UnitClassSI.
func CommonScale(vals []float64, cls UnitClass) Scaler {
	// The common scale is determined by the non-zero value
	// closest to zero.
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{2, 1, ""}
	}

	factors := siFactors
	if cls == UnitClassIEC {
		factors = iecFactors
	}

	for i, factor := range factors {
		last := i == len(factors)-1
		switch {
		case min >= factor.t100:
			return Scaler{0, factor.factor, factor.prefix}
		case min >= factor.t10:
			return Scaler{1, factor.factor, factor.prefix}
		case min >= factor.t1 || last:
			return Scaler{2, factor.factor, factor.prefix}
		}
	}
	panic("not reachable")
}
