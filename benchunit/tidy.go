// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"strings"
	"sync"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfmt"
)

type tidyEntry struct {
	tidied string
	factor float64
}

var tidyCache sync.Map // unit string -> *tidyEntry

// timePrefixes maps pre-scaled time units to their factor relative
// to seconds.
var timePrefixes = map[string]float64{
	"ns": 1e-9,
	"us": 1e-6,
	"µs": 1e-6,
	"ms": 1e-3,
}

// Tidy rewrites units and values in result to normalize them to base
// units, specifically normalizing pre-scaled time units like "ns" and
// "ms" to "sec" and "MB" to "B". This is important to do before
// comparing or scaling values, so that distances come out in base
// units and the scaler doesn't produce nonsense units like
// "kilomilliseconds".
func Tidy(result *benchfmt.Result) {
	for i := range result.Values {
		tidied, factor := TidyUnit(result.Values[i].Unit)
		if factor != 1 {
			result.Values[i] = benchfmt.Value{Value: result.Values[i].Value * factor, Unit: tidied}
		}
	}
}

// TidyUnit returns the tidied version of unit and the multiplicative
// factor to convert a value in unit "unit" to a value in unit
// "tidied".
func TidyUnit(unit string) (tidied string, factor float64) {
	// Fast path for units from the testing package and latency
	// exports.
	switch unit {
	case "ns/op":
		return "sec/op", 1e-9
	case "ms":
		return "sec", 1e-3
	case "MB/s":
		return "B/s", 1e6
	case "B/op", "allocs/op", "sec", "sec/op":
		return unit, 1
	}
	// Fast path for units with no normalization.
	if !mayTidy(unit) {
		return unit, 1
	}

	// Check the cache.
	if tc, ok := tidyCache.Load(unit); ok {
		tc := tc.(*tidyEntry)
		return tc.tidied, tc.factor
	}

	// Do the hard work and cache it.
	tidied, factor = tidy(unit)
	tidyCache.Store(unit, &tidyEntry{tidied, factor})
	return
}

func tidy(unit string) (tidied string, factor float64) {
	// Rewrite numerator tokens back to front so earlier offsets
	// stay valid.
	factor = 1
	toks := splitUnit(unit)
	for i := len(toks) - 1; i >= 0; i-- {
		tok := toks[i]
		if tok.denom {
			continue
		}
		replace := ""
		if f, ok := timePrefixes[tok.text]; ok {
			replace = "sec"
			factor *= f
		} else if tok.text == "MB" {
			replace = "B"
			factor *= 1e6
		} else {
			continue
		}
		unit = unit[:tok.pos] + replace + unit[tok.pos+len(tok.text):]
	}
	return unit, factor
}

func mayTidy(unit string) bool {
	if strings.Contains(unit, "MB") {
		return true
	}
	for prefix := range timePrefixes {
		if strings.Contains(unit, prefix) {
			return true
		}
	}
	return false
}
