// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import "fmt"

// A Rank is a letter grade for a score. Ranks are ordered from best
// (RankA) to worst (RankF).
type Rank int

const (
	RankA Rank = iota
	RankB
	RankC
	RankD
	RankE
	RankF
)

// Default lower score bounds of each rank.
const (
	BoundaryA = 90
	BoundaryB = 80
	BoundaryC = 70
	BoundaryD = 60
	BoundaryE = 50
)

var rankNames = [...]string{"A", "B", "C", "D", "E", "F"}

func (r Rank) String() string {
	if r < RankA || r > RankF {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// ParseRank parses the String form of a Rank.
func ParseRank(s string) (Rank, error) {
	for i, name := range rankNames {
		if s == name {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rank) MarshalText() ([]byte, error) {
	if r < RankA || r > RankF {
		return nil, fmt.Errorf("cannot marshal %v", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rank) UnmarshalText(text []byte) error {
	v, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Worse reports whether r is a worse rank than other.
func (r Rank) Worse(other Rank) bool {
	return r > other
}

// Boundaries are the lower score bounds of ranks A through E. A score
// below E is RankF.
type Boundaries struct {
	A, B, C, D, E float64
}

// DefaultBoundaries returns the default rank boundaries.
func DefaultBoundaries() Boundaries {
	return Boundaries{BoundaryA, BoundaryB, BoundaryC, BoundaryD, BoundaryE}
}

// Validate returns a *ConfigurationError unless the boundaries are
// strictly decreasing from A to E and lie in [0, 100].
func (b Boundaries) Validate() error {
	bs := [...]float64{b.A, b.B, b.C, b.D, b.E}
	for i, v := range bs {
		if !(v >= 0 && v <= 100) {
			return &ConfigurationError{"ranks", fmt.Sprintf("boundary %s = %v is outside [0, 100]", rankNames[i], v)}
		}
		if i > 0 && v >= bs[i-1] {
			return &ConfigurationError{"ranks", fmt.Sprintf("boundary %s = %v is not below %s = %v", rankNames[i], v, rankNames[i-1], bs[i-1])}
		}
	}
	return nil
}

// Classify returns the rank of score. It is defined for every input:
// scores above 100 are RankA and NaN is RankF.
func (b Boundaries) Classify(score float64) Rank {
	switch {
	case score >= b.A:
		return RankA
	case score >= b.B:
		return RankB
	case score >= b.C:
		return RankC
	case score >= b.D:
		return RankD
	case score >= b.E:
		return RankE
	}
	return RankF
}
