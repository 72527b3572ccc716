// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"context"
	"fmt"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfmt"
	"golang.org/x/sync/errgroup"
)

// A Collection groups benchmark results for comparison.
//
// Each measurement of a result is routed to a group identified by the
// result's group key and the measurement's unit, and within the group
// to the baseline or benchmark side according to the result's side
// label.
type Collection struct {
	groupBy, sideBy     benchfmt.Extractor
	baseline, benchmark string

	// groups maps from (group key, unit) to group.
	groups map[groupKey]*Group

	// order records the observation order of groups.
	order []*Group

	skipped int
}

type groupKey struct {
	name, unit string
}

// A Group is the set of measurements of one group key and unit.
type Group struct {
	// Name is the group key, such as a benchmark name.
	Name string

	// Unit is the unit of all values in the group.
	Unit string

	// Baseline and Benchmark are the values on each side, in
	// observation order.
	Baseline, Benchmark []float64
}

// NewCollection returns a Collection that groups results by groupBy
// and assigns them to a side by comparing sideBy with the baseline and
// benchmark labels. The labels must differ.
func NewCollection(groupBy, sideBy benchfmt.Extractor, baseline, benchmark string) (*Collection, error) {
	if baseline == benchmark {
		return nil, &ConfigurationError{"sides", fmt.Sprintf("baseline and benchmark are both %q", baseline)}
	}
	return &Collection{
		groupBy:   groupBy,
		sideBy:    sideBy,
		baseline:  baseline,
		benchmark: benchmark,
		groups:    make(map[groupKey]*Group),
	}, nil
}

// Add adds all measurements in result to the collection. Results whose
// side label matches neither side are counted by Skipped and otherwise
// ignored. Add does not retain result.
func (c *Collection) Add(result *benchfmt.Result) {
	var base bool
	switch c.sideBy(result) {
	case c.baseline:
		base = true
	case c.benchmark:
	default:
		c.skipped++
		return
	}

	name := c.groupBy(result)
	for _, val := range result.Values {
		key := groupKey{name, val.Unit}
		g := c.groups[key]
		if g == nil {
			g = &Group{Name: name, Unit: val.Unit}
			c.groups[key] = g
			c.order = append(c.order, g)
		}
		if base {
			g.Baseline = append(g.Baseline, val.Value)
		} else {
			g.Benchmark = append(g.Benchmark, val.Value)
		}
	}
}

// Groups returns the groups of c in the order they were first
// observed.
func (c *Collection) Groups() []*Group {
	return c.order
}

// Skipped returns the number of results that matched neither side.
func (c *Collection) Skipped() int {
	return c.skipped
}

// A GroupComparison is the comparison of the two sides of one group.
type GroupComparison struct {
	Group *Group
	Comparison

	// Err is non-nil if the group could not be compared. It
	// matches ErrMissingSide if either side has no values, or
	// ErrInvalidSample if either side is invalid.
	Err error
}

// Compare compares the two sides of every group using cmp, running up
// to limit comparisons concurrently (no limit if limit <= 0). Groups
// that cannot be compared are reported through GroupComparison.Err
// rather than failing the whole collection. The result is in the
// order of Groups.
//
// Compare returns an error only if ctx is done before all groups are
// compared.
func (c *Collection) Compare(ctx context.Context, cmp *Comparer, limit int) ([]GroupComparison, error) {
	groups := c.Groups()
	out := make([]GroupComparison, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, grp := range groups {
		i, grp := i, grp
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = compareGroup(cmp, grp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func compareGroup(cmp *Comparer, g *Group) GroupComparison {
	gc := GroupComparison{Group: g}
	switch {
	case len(g.Baseline) == 0:
		gc.Err = fmt.Errorf("%s: no baseline values: %w", g.Unit, ErrMissingSide)
	case len(g.Benchmark) == 0:
		gc.Err = fmt.Errorf("%s: no benchmark values: %w", g.Unit, ErrMissingSide)
	default:
		gc.Comparison, gc.Err = cmp.Compare(g.Baseline, g.Benchmark)
	}
	return gc
}
