// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit works with the units of benchmark and load-test
// measurements.
//
// Tidy converts pre-scaled units such as "ms" to base units so that
// distances between samples come out in seconds or bytes, and Scale
// prints numbers in those units with SI or binary prefixes.
package benchunit

import (
	"fmt"
	"unicode"
)

// UnitClass distinguishes units that should be scaled differently.
type UnitClass int

const (
	// UnitClassSI indicates values of a given unit should be
	// scaled by powers of 1000 and use the International System
	// of Units SI prefixes. Latencies are UnitClassSI.
	UnitClassSI UnitClass = iota
	// UnitClassIEC indicates values of a given unit should be
	// scaled by powers of 1024 and use the International
	// Electrotechnical Commission binary prefixes.
	UnitClassIEC
)

func (c UnitClass) String() string {
	switch c {
	case UnitClassSI:
		return "UnitClassSI"
	case UnitClassIEC:
		return "UnitClassIEC"
	}
	return fmt.Sprintf("UnitClass(%d)", int(c))
}

// byteUnits are the tokens that measure bytes.
var byteUnits = map[string]bool{
	"B": true, "bytes": true,
	"kB": true, "KB": true, "MB": true, "GB": true,
	"KiB": true, "MiB": true, "GiB": true,
}

// UnitClassOf returns the UnitClass of unit. If unit contains some
// measure of bytes in the numerator, this is UnitClassIEC. Otherwise,
// it is UnitClassSI, which covers every time unit.
func UnitClassOf(unit string) UnitClass {
	for _, tok := range splitUnit(unit) {
		if byteUnits[tok.text] && !tok.denom {
			return UnitClassIEC
		}
	}
	return UnitClassSI
}

// A unitToken is one factor of a unit, such as "B" in "B/op".
type unitToken struct {
	text  string
	pos   int  // byte offset in the unit
	denom bool // the token is in the denominator
}

// splitUnit splits unit into its factors. A "/" moves the following
// factors to the denominator and a "*" back to the numerator. Hyphens
// and spaces separate factors on the same side, so "disk-B" has a "B"
// factor.
func splitUnit(unit string) []unitToken {
	var toks []unitToken
	start, denom := -1, false
	flush := func(end int) {
		if start >= 0 {
			toks = append(toks, unitToken{unit[start:end], start, denom})
			start = -1
		}
	}
	for i, r := range unit {
		switch {
		case r == '*':
			flush(i)
			denom = false
		case r == '/':
			flush(i)
			denom = true
		case r == '-' || unicode.IsSpace(r):
			flush(i)
		case start < 0:
			start = i
		}
	}
	flush(len(unit))
	return toks
}
